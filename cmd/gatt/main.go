package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fraugster/cli"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	config "github.com/spf13/viper"

	"github.com/skjal/gatt/internal/api"
	"github.com/skjal/gatt/internal/auth"
	"github.com/skjal/gatt/internal/model"
	"github.com/skjal/gatt/internal/util"
)

var (
	ctx         context.Context
	authService *auth.Service
	client      *api.Client

	apiBase      string
	providerName string
	authMode     string
	authSubject  string
)

var rootCmd = &cobra.Command{
	Use:   "gatt",
	Short: "Client for the document-transfer and umboð portal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if apiBase == "" {
			apiBase = config.GetString("api_base")
		}
		if apiBase == "" {
			return errors.New("api base URL is required (--api-base or GATT_API_BASE)")
		}
		if providerName == "" {
			providerName = config.GetString("provider")
		}
		log.WithField("settings", util.AllConfigSettings()).Debug("Configuration resolved")
		return wire()
	},
}

// wire builds the identity provider and the backend client. The provider
// is chosen by configuration, never by inspecting types.
func wire() error {
	options := []func(*api.Client) error{}
	switch providerName {
	case auth.ProviderEntra:
		provider, err := auth.NewEntraProvider(
			config.GetString("entra_authority"),
			config.GetString("entra_client_id"),
			config.GetString("entra_client_secret"),
			config.GetString("entra_scope"),
		)
		if err != nil {
			return errors.Wrap(err, "configuring entra provider")
		}
		authService = auth.NewService(provider)
	case auth.ProviderDokobit, "":
		if authMode == "" {
			authMode = config.GetString("auth_mode")
		}
		if authMode == "" {
			authMode = string(auth.ModeMobile)
		}
		if authSubject == "" {
			authSubject = config.GetString("auth_subject")
		}
		provider, err := auth.NewDokobitProvider(apiBase, auth.Mode(authMode), authSubject,
			auth.OptionChallengeCallback(showChallenge))
		if err != nil {
			return errors.Wrap(err, "configuring dokobit provider")
		}
		authService = auth.NewService(provider)
		options = append(options, api.OptionCredentialedClient(provider.HTTPClient()))
	default:
		return errors.Errorf("unknown identity provider %q", providerName)
	}

	var err error
	options = append(options, api.OptionTokenSource(authService))
	client, err = api.NewClient(apiBase, options...)
	return errors.Wrap(err, "configuring backend client")
}

func showChallenge(challenge *model.Challenge) {
	fmt.Println("Beðið eftir auðkenningu.")
	fmt.Printf("Öryggistalan %s ætti að birtast á skjánum þínum (þessi tala er ekki PIN númerið).\n", challenge.ControlCode)
	fmt.Println("Vinsamlegast samþykktu auðkenninguna aðeins ef þessi öryggistala er með.")
}

func init() {
	util.InitConfig()

	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "backend base URL")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "identity provider (entra or dokobit)")
	rootCmd.PersistentFlags().StringVar(&authMode, "mode", "", "verification mode (app or mobile)")
	rootCmd.PersistentFlags().StringVar(&authSubject, "subject", "", "kennitala (app mode) or phone number (mobile mode)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(companiesCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(tjodskraCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(umbodCmd)
	rootCmd.AddCommand(workupCmd)
	rootCmd.AddCommand(formrequestCmd)
	rootCmd.AddCommand(waitinglistCmd)
}

func main() {
	ctx = cli.Context()
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
