package app

import (
	"fmt"

	"github.com/aurelle/marketing-backend/internal/cache"
	"github.com/aurelle/marketing-backend/internal/clients/neo4jdb"
	"github.com/aurelle/marketing-backend/internal/clients/sendgrid"
	"github.com/aurelle/marketing-backend/internal/graph"
	"github.com/aurelle/marketing-backend/internal/logger"
)

type Clients struct {
	Graph    graph.Store
	Cache    cache.Cache
	Mailer   sendgrid.Client
	MailFrom sendgrid.Config
}

// wireClients builds the optional backing stores. Neo4j, Redis and SendGrid
// are all allowed to be absent; the services degrade instead of failing.
func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}
	if neoClient == nil {
		log.Warn("Neo4j not configured, graph features degraded")
	}
	graphStore := graph.NewNeo4jStore(neoClient, log)

	cacheStore, err := cache.NewRedisCache(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	if cacheStore == nil {
		log.Warn("Redis not configured, caching disabled")
		cacheStore = cache.NewNoop()
	}

	mailer, err := sendgrid.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init sendgrid: %w", err)
	}
	if mailer == nil {
		log.Warn("SendGrid not configured, email delivery disabled")
	}

	return Clients{
		Graph:    graphStore,
		Cache:    cacheStore,
		Mailer:   mailer,
		MailFrom: sendgrid.ConfigFromEnv(log),
	}, nil
}
