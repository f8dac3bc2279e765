package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envVAPIDPublicKey  = "VAPID_PUBLIC_KEY"
	envVAPIDPrivateKey = "VAPID_PRIVATE_KEY"
	envVAPIDContact    = "VAPID_CONTACT"
)

// config is the application server identity, read from flags, the
// environment or a .env file, in that order of precedence.
type config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDContact    string
}

type app struct {
	v       *viper.Viper
	log     *logrus.Logger
	envFile string
	debug   bool
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logrus.New()}

	root := &cobra.Command{
		Use:   "go-push-crypto",
		Short: "Encrypt Web Push messages and sign VAPID headers",
		Long: `go-push-crypto produces everything needed to deliver a Web Push message:
an aes128gcm body encrypted for one subscription (RFC 8291) and a VAPID
Authorization header (RFC 8292). It never contacts the push service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file to load (ignored when the default is missing)")
	pf.BoolVarP(&a.debug, "debug", "d", false, "debug output")
	pf.String("vapid-public-key", "", "VAPID public key, base64url (env "+envVAPIDPublicKey+")")
	pf.String("vapid-private-key", "", "VAPID private key, base64url (env "+envVAPIDPrivateKey+")")
	pf.String("vapid-contact", "", "VAPID contact, mailto: or https: (env "+envVAPIDContact+")")
	for key, flag := range map[string]string{
		envVAPIDPublicKey:  "vapid-public-key",
		envVAPIDPrivateKey: "vapid-private-key",
		envVAPIDContact:    "vapid-contact",
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(a.generateVAPIDCmd(), a.vapidHeaderCmd(), a.encryptCmd())
	return root
}

// initConfig sets up logging, loads the .env file and enables
// environment lookups. Variables already set in the environment win over
// the file.
func (a *app) initConfig(cmd *cobra.Command) error {
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if a.debug {
		a.log.SetLevel(logrus.DebugLevel)
	}

	if err := godotenv.Load(a.envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	} else {
		a.log.WithField("file", a.envFile).Debug("loaded environment file")
	}
	a.v.AutomaticEnv()
	return nil
}

func (a *app) config() config {
	return config{
		VAPIDPublicKey:  a.v.GetString(envVAPIDPublicKey),
		VAPIDPrivateKey: a.v.GetString(envVAPIDPrivateKey),
		VAPIDContact:    a.v.GetString(envVAPIDContact),
	}
}

// vapidConfig returns the config and fails when part of the VAPID
// identity is missing.
func (a *app) vapidConfig() (config, error) {
	cfg := a.config()
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return config{}, fmt.Errorf("%s and %s are required. Run 'go-push-crypto generate-vapid' to generate a keypair", envVAPIDPublicKey, envVAPIDPrivateKey)
	}
	if cfg.VAPIDContact == "" {
		return config{}, fmt.Errorf("%s is required (e.g. mailto:admin@example.com)", envVAPIDContact)
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}
