package health

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (hrm *HealthRoutesManager) GetServerHealth(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(hrm.healthService.GetServerHealthStatus()),
		gecho.Send(),
	)
}

// GetDatabaseHealth reports the store, cache and broker. Only a failing
// store turns the answer into a 503.
func (hrm *HealthRoutesManager) GetDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	status, err := hrm.healthService.GetDatabaseHealthStatus(r.Context())
	if err != nil {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("Database health check failed"),
			gecho.WithData(status),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}

// GetReadiness is the load balancer probe: 200 once the store answers.
func (hrm *HealthRoutesManager) GetReadiness(w http.ResponseWriter, r *http.Request) {
	if _, err := hrm.healthService.GetDatabaseHealthStatus(r.Context()); err != nil {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("Not ready"),
			gecho.WithData(map[string]bool{"ready": false}),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]bool{"ready": true}),
		gecho.Send(),
	)
}
