package app

import (
	"github.com/RDarrylR/dsql-kabob-store/internal/config"
	"github.com/RDarrylR/dsql-kabob-store/internal/dsql"
)

type Infra struct {
	Sessions *dsql.Manager
}

// setupInfra builds the session manager. No connection is opened here: the
// manager connects lazily, on the first unit of work that needs it.
func setupInfra(cfg config.Config) *Infra {
	sessions := dsql.NewManager(cfg.ClusterIdentifier, cfg.Region, dsql.AdminTokenProvider{})
	return &Infra{Sessions: sessions}
}
