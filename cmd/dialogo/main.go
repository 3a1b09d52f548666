// Command dialogo runs spoken voice-assistant sessions from the terminal:
// it captures the microphone, transcribes speech, streams a persona-driven
// response out of an LLM and speaks it back, with barge-in support and a
// session clock. Subcommands list audio devices and preflight-check the
// environment.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "dialogo",
	Short: "Talk to a Spanish-speaking voice assistant from your terminal",
	Long: `dialogo captures your microphone, transcribes what you say, streams a
response from an LLM and speaks it back sentence by sentence. Interrupting
the assistant mid-sentence stops playback and hands the turn back to you.

Configuration is read from flags, DIALOGO_* environment variables and an
optional dialogo.yaml file, in that order of precedence.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./dialogo.yaml)")

	rootCmd.PersistentFlags().String("provider", "groq", "LLM provider: groq, openai or gemini")
	rootCmd.PersistentFlags().String("model", "", "LLM model (provider default when empty)")
	rootCmd.PersistentFlags().String("stt-model", "nova-3", "Deepgram transcription model")
	rootCmd.PersistentFlags().String("language", "es", "transcription language as a BCP-47 tag")
	rootCmd.PersistentFlags().String("synthesizer", "deepgram", "speech synthesizer: deepgram or piper")
	rootCmd.PersistentFlags().String("voice", "aura-2-celeste-es", "Deepgram voice")
	rootCmd.PersistentFlags().String("piper-model", "", "path to a Piper voice model (.onnx)")
	rootCmd.PersistentFlags().String("piper-binary", "piper", "Piper executable")
	rootCmd.PersistentFlags().String("backend", "miniaudio", "audio backend: miniaudio or portaudio")
	rootCmd.PersistentFlags().String("capture-device", "", "capture device name (backend default when empty)")
	rootCmd.PersistentFlags().String("playback-device", "", "playback device name (backend default when empty)")

	for flag, key := range map[string]string{
		"provider":        "provider",
		"model":           "model",
		"stt-model":       "stt_model",
		"language":        "language",
		"synthesizer":     "synthesizer",
		"voice":           "voice",
		"piper-model":     "piper_model",
		"piper-binary":    "piper_binary",
		"backend":         "backend",
		"capture-device":  "capture_device",
		"playback-device": "playback_device",
	} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
}

// initConfig wires viper to the optional config file and DIALOGO_*
// environment variables. A missing config file is not an error.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("dialogo")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/dialogo")
		}
	}

	viper.SetEnvPrefix("DIALOGO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	setSessionDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: could not read config: %v\n", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
