package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	server  string
)

var rootCmd = &cobra.Command{
	Use:   "athyr-chat",
	Short: "Terminal chat client for Athyr agents",
	Long: `athyr-chat is a terminal chat input for agents running on Athyr.

Messages typed into the input are published to the agent's input topic
and replies are shown as they arrive on its output topic.

Example:
  athyr-chat run chat.yaml --server localhost:9090
  athyr-chat send "What is Athyr?" --file chat.yaml --wait 30s
  athyr-chat validate chat.yaml`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.athyr-chat.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&server, "server", "localhost:9090", "Athyr server address")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning: could not find home directory:", err)
			return
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".athyr-chat")
	}

	viper.SetEnvPrefix("ATHYR_CHAT")
	viper.AutomaticEnv()

	// Missing file is fine; flags and env still apply.
	_ = viper.ReadInConfig()
}
