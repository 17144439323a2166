/*
Copyright 2024 Venn Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vennhq/venn/api"
	"github.com/vennhq/venn/config"
	trace "github.com/vennhq/venn/internal/traces"
)

func initializeRouter(v *vennInstance) *gin.Engine {
	return api.NewAPI(v.venn).Router()
}

func initializeTracing(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := trace.SetupOTelSDK(ctx, "VENN")
	if err != nil {
		return nil, fmt.Errorf("error setting up OTel SDK: %v", err)
	}
	return shutdown, nil
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

// serverCommands creates the command that starts the HTTP server.
func serverCommands(v *vennInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start venn server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if v.cnf.EnableTelemetry {
				shutdown, err := initializeTracing(ctx)
				if err != nil {
					log.Fatal(err)
				}
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Printf("Error shutting down tracing: %v", err)
					}
				}()
			}

			router := initializeRouter(v)
			if err := startServer(router, v.cnf.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
