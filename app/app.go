package app

import (
	"github.com/mbolis/quick-form/config"
	"github.com/mbolis/quick-form/database"
	"github.com/mbolis/quick-form/metrics"
	"github.com/mbolis/quick-form/model"
)

// App carries what every handler needs. The schema is loaded once and
// never mutated.
type App struct {
	database.Store
	Schema  *model.FormSchema
	Metrics *metrics.Metrics
	config.Config
}
