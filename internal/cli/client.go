package cli

import (
	"database/sql"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/service"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage API clients",
	}

	var id, name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Register an API client and print its secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			db, err := sql.Open("postgres", cfg.DBConn)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			svc := service.NewService(repository.NewRepository(db), log, cfg, nil, nil)

			client, secret, err := svc.CreateClient(cmd.Context(), id, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "client_id:     %s\nclient_secret: %s\n", client.ClientID, secret)
			fmt.Fprintln(cmd.ErrOrStderr(), "Store the secret now; it cannot be recovered.")
			return nil
		},
	}
	create.Flags().StringVar(&id, "id", "", "Client identifier")
	create.Flags().StringVar(&name, "name", "", "Display name")
	_ = create.MarkFlagRequired("id")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create)
	return cmd
}
