package search

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"oficina/client/es"
	"oficina/common"
	"oficina/indices"
	"oficina/session"

	"github.com/gin-gonic/gin"
)

var SearchPrevisoesFunc = SearchPrevisoes

type PrevisaoSearchQuery struct {
	Status      string `form:"status" json:"status"`
	CriadorNome string `form:"criadorNome" json:"criadorNome"`
}

// SearchPrevisoes queries the forecast index scoped to the session tenant,
// newest first.
func SearchPrevisoes(q PrevisaoSearchQuery, s *session.Session) ([]indices.PrevisaoDocument, error) {
	filters := make([]es.H, 0, 4)
	filters = append(filters, es.H{"term": es.H{"tenantId": s.TenantID}})
	if q.Status != "" {
		filters = append(filters, es.H{"term": es.H{"status": q.Status}})
	}
	if q.CriadorNome != "" {
		filters = append(filters, es.H{"match": es.H{"criadorNome": es.H{"query": q.CriadorNome, "operator": "AND"}}})
	}

	sorts := []es.H{{"createTime": es.H{"order": "desc"}}}

	root := es.H{"bool": es.H{"filter": filters}}
	r, err := es.SearchFunc(indices.PrevisaoIndexName, es.H{"size": 10000, "query": root, "sort": sorts}, s)
	if err != nil {
		return nil, err
	}

	docs := make([]indices.PrevisaoDocument, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := indices.PrevisaoDocument{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&doc); err != nil {
			return nil, fmt.Errorf(string(hit.Source))
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

const PathPrevisaoSearch = "/v1/previsao-searches"

func RegisterSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathPrevisaoSearch, middleWares...)
	g.GET("", handleSearchPrevisoes)
}

func handleSearchPrevisoes(c *gin.Context) {
	query := PrevisaoSearchQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	docs, err := SearchPrevisoesFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, docs)
}
