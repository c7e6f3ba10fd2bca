package main

import (
	"errors"
	"fmt"

	"grievancechat/internal/relay"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	submitName      string
	submitEmail     string
	submitGrievance string
)

// submitCmd files a grievance without the interactive interface
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a grievance and print its ID",
	Long: `Posts the grievance form once and prints the identifier the backend
issues. Use that identifier with "grievance chat --id".

Example:
  grievance submit --name Alice --email a@x.com --grievance "noisy neighbor"`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitName, "name", "", "Your full name (required)")
	submitCmd.Flags().StringVar(&submitEmail, "email", "", "Your email (required)")
	submitCmd.Flags().StringVar(&submitGrievance, "grievance", "", "Grievance description (required)")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg, logger.Named("api"))
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	sub := relay.NewSubmitter(client, logger.Named("relay"))
	sess, err := sub.Submit(ctx, relay.Form{
		Name:      submitName,
		Email:     submitEmail,
		Grievance: submitGrievance,
	})
	if errors.Is(err, relay.ErrIncompleteForm) {
		return fmt.Errorf("--name, --email and --grievance are all required: %w", err)
	}
	if err != nil {
		return err
	}

	logger.Debug("grievance session", zap.String("session", sess.LocalID()))
	fmt.Fprintf(cmd.OutOrStdout(), "Grievance submitted successfully! Your ID: %s\n", sess.GrievanceID())
	return nil
}
