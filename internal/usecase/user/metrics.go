package user

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ratingsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "samaritan_user_ratings_total",
		Help: "User ratings processed, by outcome.",
	}, []string{"outcome"})

	registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "samaritan_user_registrations_total",
		Help: "Accounts registered.",
	})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "samaritan_user_logins_total",
		Help: "Credential checks, by result.",
	}, []string{"result"})
)
