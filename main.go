package main

import (
	"net/http"

	"oficina/account"
	"oficina/avatar"
	"oficina/bizerror"
	"oficina/client/es"
	"oficina/client/s3"
	"oficina/common"
	"oficina/domain"
	"oficina/domain/ajuste"
	"oficina/domain/calendario"
	"oficina/domain/colaborador"
	"oficina/domain/lote"
	"oficina/domain/previsao"
	"oficina/domain/produto"
	"oficina/domain/ranking"
	"oficina/event"
	"oficina/indices"
	"oficina/indices/search"
	"oficina/infra/tracing"
	"oficina/notify"
	"oficina/persistence"
	"oficina/servehttp"
	"oficina/session"
	"oficina/sessions"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerlog "github.com/uber/jaeger-client-go/log"
	"github.com/uber/jaeger-lib/metrics"
)

func main() {
	logrus.Infoln("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed %v", err)
	}
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database %v", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed %v", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	err = ds.GormDB(nil).AutoMigrate(
		&account.User{},
		&domain.Oficina{},
		&domain.Produto{}, &domain.Etapa{}, &domain.Subetapa{}, &domain.MetricaEtapaProduto{},
		&domain.Colaborador{}, &domain.Rendimento{},
		&domain.Lote{}, &domain.Producao{},
		&domain.Previsao{}, &domain.Ajuste{},
		&calendario.DiaCalendario{},
		&ranking.Meta{},
		&event.EventRecord{},
	).Error
	if err != nil {
		logrus.Fatalf("database migration failed %v", err)
	}

	if err := account.Bootstrap(); err != nil {
		logrus.Fatalf("account bootstrap failed %v", err)
	}

	tracingCloser := bootstrapTracing()
	defer tracingCloser()

	es.CreateClientFromEnv()
	s3.Bootstrap()

	event.EventHandlers = append(event.EventHandlers,
		indices.IndexPrevisaoEventHandle,
		notify.WebhookEventHandle,
	)
	indices.StartCron()

	engine := gin.New()
	engine.Use(gin.Logger(), tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})

	sessions.RegisterSessionsRestAPI(engine)

	auth := session.SimpleAuthFilter()
	account.RegisterUsersRestAPI(engine, auth)
	calendario.RegisterCalendarioRestAPI(engine, auth)
	colaborador.RegisterColaboradoresRestAPI(engine, auth)
	produto.RegisterProdutosRestAPI(engine, auth)
	lote.RegisterLotesRestAPI(engine, auth)
	previsao.RegisterPrevisoesRestAPI(engine, auth)
	ajuste.RegisterAjustesRestAPI(engine, auth)
	ranking.RegisterRankingRestAPI(engine, auth)
	avatar.RegisterFotosRestAPI(engine, auth)
	indices.RegisterIndicesRestAPI(engine, auth)
	search.RegisterSearchRestAPI(engine, auth)

	servehttp.StartHTTPServer(engine)
}

// bootstrapTracing wires the jaeger tracer from JAEGER_* environment
// variables and returns its closer.
func bootstrapTracing() func() {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		logrus.Fatalf("jaeger config failed %v", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = common.GetServiceName()
	}

	tracer, closer, err := cfg.NewTracer(
		jaegercfg.Logger(jaegerlog.StdLogger),
		jaegercfg.Metrics(metrics.NullFactory),
	)
	if err != nil {
		logrus.Fatalf("jaeger tracer failed %v", err)
	}
	opentracing.SetGlobalTracer(tracer)

	return func() {
		if err := closer.Close(); err != nil {
			logrus.Warnf("failed to close tracer: %v", err)
		}
	}
}
