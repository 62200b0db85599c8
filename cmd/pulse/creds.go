package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/finze-app/finze-pulse/internal/cli"
	"github.com/finze-app/finze-pulse/internal/common"
	"github.com/finze-app/finze-pulse/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2/google"
)

// firestoreScope is the OAuth scope the Firestore probes need; creds checks
// that the key parses into a token source for it.
const firestoreScope = "https://www.googleapis.com/auth/datastore"

func credsCmd() *cobra.Command {
	var credFile string

	cmd := &cobra.Command{
		Use:   "creds",
		Short: "Inspect the service account credentials file",
		Long: `Resolve the service account JSON the store commands would use, confirm it
exists, and parse it far enough to show which identity and project it
belongs to. Exits non-zero when the key is missing or unusable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := credFile
			if path == "" {
				path = viper.GetString("store.credentials_file")
			}
			if path == "" {
				path = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
			}
			if path == "" {
				return fmt.Errorf("%w: set --file, store.credentials_file, or GOOGLE_APPLICATION_CREDENTIALS", common.ErrMissingCredentials)
			}
			path = config.ExpandPath(path)

			fmt.Printf("🔑 Credentials file: %s\n", path)

			jsonKey, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %v", common.ErrCredentialsFile, err)
			}

			jwtConfig, err := google.JWTConfigFromJSON(jsonKey, firestoreScope)
			if err != nil {
				return fmt.Errorf("%w: unable to parse service account key: %v", common.ErrCredentialsFile, err)
			}

			// JWTConfigFromJSON drops the project id; pull it from the raw key.
			var meta struct {
				Type      string `json:"type"`
				ProjectID string `json:"project_id"`
			}
			if err := json.Unmarshal(jsonKey, &meta); err != nil {
				return fmt.Errorf("%w: %v", common.ErrCredentialsFile, err)
			}

			fmt.Println(cli.FormatSuccess("Service account key parsed"))
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Type:\t%s\n", meta.Type)
			fmt.Fprintf(w, "Project:\t%s\n", meta.ProjectID)
			fmt.Fprintf(w, "Client email:\t%s\n", jwtConfig.Email)
			fmt.Fprintf(w, "Private key:\t%s\n", describeKey(jwtConfig.PrivateKey))
			fmt.Fprintf(w, "Token URL:\t%s\n", jwtConfig.TokenURL)
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render credentials table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&credFile, "file", "", "path to the service account JSON")

	return cmd
}

func describeKey(key []byte) string {
	if len(key) == 0 {
		return "missing"
	}
	return fmt.Sprintf("present (%d bytes)", len(key))
}
