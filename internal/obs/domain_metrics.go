package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersCreatedTotal counts orders created by source (form, spreadsheet).
	OrdersCreatedTotal *prometheus.CounterVec
	// DocumentsRenderedTotal counts document render outcomes.
	DocumentsRenderedTotal *prometheus.CounterVec
	// PaymentsRecordedTotal counts balance mutations by operation.
	PaymentsRecordedTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Count of orders created by submission source.",
		}, []string{"source"})
		DocumentsRenderedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Count of order document renders by outcome.",
		}, []string{"result"})
		PaymentsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Count of balance mutations by operation.",
		}, []string{"op"})
		reg.MustRegister(OrdersCreatedTotal, DocumentsRenderedTotal, PaymentsRecordedTotal)
	})
}
