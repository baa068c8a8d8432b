package indices

import (
	"errors"
	"fmt"

	"oficina/client/es"
	"oficina/domain"
	"oficina/event"
	"oficina/persistence"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var (
	PrevisaoIndexName             = "previsoes"
	PrevisaoIndexEventHandlerName = "previsaoIndexer"
)

// PrevisaoDocument is the searchable projection of a forecast.
type PrevisaoDocument struct {
	domain.Previsao

	HorasEfetivas float64 `json:"horasEfetivas"`
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

func IndexPrevisoes(previsoes []domain.Previsao, s *session.Session) error {
	errs := BatchActionError{}
	for _, p := range previsoes {
		doc := PrevisaoDocument{Previsao: p, HorasEfetivas: p.HorasEfetivas()}
		if err := es.IndexFunc(PrevisaoIndexName, doc.ID, doc, s); err != nil {
			errs[doc.ID] = err
			logrus.Warnf("index previsao %d: %v\n", doc.ID, err)
		} else {
			logrus.Infof("indexed previsao %d\n", doc.ID)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IndexPrevisaoEventHandle keeps the search index in step with the ledger:
// every persisted forecast event re-indexes (or removes) its document.
func IndexPrevisaoEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != event.SourceTypePrevisao {
		return nil
	}

	robot := indexRobotSession()

	if e.EventCategory == event.EventCategoryDeleted {
		if err := es.DeleteDocumentByIdFunc(PrevisaoIndexName, e.SourceId, robot); err != nil {
			return &event.EventHandleResult{
				Message:           fmt.Sprintf("delete previsao index %d, %v", e.SourceId, err),
				HandlerIdentifier: PrevisaoIndexEventHandlerName,
			}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: PrevisaoIndexEventHandlerName}
	}

	db := persistence.ActiveDataSourceManager.GormDB(nil)
	record := domain.Previsao{}
	if err := db.Where(&domain.Previsao{ID: e.SourceId}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// deleted between commit and handling, nothing to index
			return &event.EventHandleResult{Success: true, HandlerIdentifier: PrevisaoIndexEventHandlerName}
		}
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("load previsao %d, %v", e.SourceId, err),
			HandlerIdentifier: PrevisaoIndexEventHandlerName,
		}
	}

	if err := IndexPrevisoes([]domain.Previsao{record}, robot); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("index previsao %d, %v", e.SourceId, err),
			HandlerIdentifier: PrevisaoIndexEventHandlerName,
		}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: PrevisaoIndexEventHandlerName}
}
