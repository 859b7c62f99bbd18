package credentials

import (
	"github.com/prometheus/client_golang/prometheus"
)

var revealsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "credential_reveals_total",
	Help: "Revelados de credenciales por resultado",
}, []string{"result"}) // ok|forbidden|not_found|invalid_id|decrypt_failed|audit_failed|error

func init() {
	if err := prometheus.Register(revealsTotal); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			panic(err)
		}
	}
}

func observeReveal(result string) {
	revealsTotal.WithLabelValues(result).Inc()
}
