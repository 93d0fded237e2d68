package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()

	viper.SetDefault("reader", 0)
	viper.SetDefault("verbose", false)
}

// newRootCmd builds the dfu-token command tree. Tests call it to get a fresh tree.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dfu-token",
		Short: "Host-side tooling for the DFU applet of a secure token.",
		Long: `dfu-token talks to the firmware decryption (DFU) applet of a secure
token through a PC/SC reader, and prepares the platform key bag used by the
unlock sequence.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newSelectCmd())
	cmd.AddCommand(newKeyBagCmd())

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dfu-token.yaml)")
	cmd.PersistentFlags().Int("reader", 0, "index of the PC/SC reader to use")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "print every APDU exchanged with the token")

	viper.BindPFlag("reader", cmd.PersistentFlags().Lookup("reader"))
	viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))

	return cmd
}

// initConfig reads the optional config file and DFUTOKEN_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dfu-token")
	}

	viper.SetEnvPrefix("DFUTOKEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return
		}
		fmt.Fprintf(os.Stderr, "Warning: cannot read config %s: %v\n", viper.ConfigFileUsed(), err)
	}
}
