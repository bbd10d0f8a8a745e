package leads

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var importedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "backoffice_leads_imported_total",
	Help: "Leads inserted through CSV import.",
})
