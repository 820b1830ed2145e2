package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/formhive/formhive/billing"
	"github.com/formhive/formhive/config"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	Billing billing.Provider
}
