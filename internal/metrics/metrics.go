package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finbot_requests_created_total",
		Help: "Заявки и запросы, созданные через бота.",
	}, []string{"kind"})

	StatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finbot_status_updates_total",
		Help: "Записи, затронутые массовыми действиями бэк-офиса.",
	}, []string{"kind", "status"})
)
