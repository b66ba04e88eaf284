package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/platefull/weekplan/internal/client"
	"github.com/platefull/weekplan/internal/clock"
	"github.com/platefull/weekplan/internal/config"
	"github.com/platefull/weekplan/internal/cutoff"
	"github.com/platefull/weekplan/internal/expectation"
	"github.com/platefull/weekplan/internal/logger"
	"github.com/platefull/weekplan/internal/migration"
	"github.com/platefull/weekplan/internal/observability"
	"github.com/platefull/weekplan/internal/orderstore"
	"github.com/platefull/weekplan/internal/reconcile"
	"github.com/platefull/weekplan/internal/reference"
	"github.com/platefull/weekplan/internal/scheduler"
	"github.com/platefull/weekplan/internal/server"
	"github.com/platefull/weekplan/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Engine domains
		cutoff.Module,
		reference.Module,
		client.Module,
		expectation.Module,
		orderstore.Module,
		reconcile.Module,

		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
