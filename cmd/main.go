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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vennhq/venn"
	"github.com/vennhq/venn/config"
	"github.com/vennhq/venn/database"
	"github.com/vennhq/venn/internal/notification"
)

// Venn represents the CLI application, encapsulating the root Cobra command.
type Venn struct {
	cmd *cobra.Command
}

// vennInstance holds the engine instance and its configuration, shared by
// the subcommands.
type vennInstance struct {
	venn *venn.Venn
	cnf  *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the engine before any
// subcommand executes.
func preRun(app *vennInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newVenn, err := setupVenn(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.venn = newVenn
		app.cnf = cnf

		return nil
	}
}

// setupVenn creates and initializes a new engine instance from the
// configured data source.
func setupVenn(cfg *config.Configuration) (*venn.Venn, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newVenn, err := venn.NewVenn(db)
	if err != nil {
		return nil, fmt.Errorf("error creating venn: %v", err)
	}
	return newVenn, nil
}

// NewCLI creates the command-line interface for the Venn application.
func NewCLI() *Venn {
	var configFile string
	v := &vennInstance{}

	var rootCmd = &cobra.Command{
		Use:   "venn",
		Short: "Transaction reconciliation matching engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./venn.json", "Configuration file for venn")
	rootCmd.PersistentPreRunE = preRun(v, &configFile)

	rootCmd.AddCommand(serverCommands(v))
	rootCmd.AddCommand(migrateCommands(v))

	return &Venn{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur.
func (w Venn) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
