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
	"log"

	"github.com/spf13/cobra"

	"github.com/vennhq/venn/config"
	"github.com/vennhq/venn/database"
)

// migrateCommands creates the command that bootstraps the database schema.
// ConnectDB already bootstraps on startup; this command exists so operators
// can prepare a database without starting the server.
func migrateCommands(_ *vennInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "create venn database schema",
		Run: func(cmd *cobra.Command, args []string) {
			cnf, err := config.Fetch()
			if err != nil {
				log.Printf("Error fetching config: %v", err)
				return
			}

			db, err := database.ConnectDB(cnf.DataSource.Dns)
			if err != nil {
				log.Printf("Error connecting to database: %v", err)
				return
			}
			defer db.Close()

			if err := database.BootstrapSchema(db); err != nil {
				log.Printf("Error bootstrapping schema: %v", err)
				return
			}

			log.Println("Schema ready ✅")
		},
	}

	return cmd
}
