package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natexcvi/webhook-llm/config"
	"github.com/natexcvi/webhook-llm/engines"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	speechLang     string
	audioFormat    string
	sampleRate     int
	bitRate        int
	channels       int
	voice          string
	outPath        string
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe AUDIO_FILE",
	Short: "Transcribe an audio file with a speech-to-text webhook.",
	Long: `Transcribe an audio file with a speech-to-text webhook.
For --format wav the file must hold raw PCM samples; a WAV
header is added before upload.
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd, config.KindSTT)
		if err != nil {
			log.Error(err)
			return
		}
		audio, err := os.ReadFile(args[0])
		if err != nil {
			log.Error(err)
			return
		}
		language, err := speechLanguage(cmd, cfg)
		if err != nil {
			log.Error(err)
			return
		}
		ctx, cancel := signalContext()
		defer cancel()
		text, err := newClient(cfg).Transcribe(ctx, audio, engines.SpeechMetadata{
			Language:   language,
			Format:     engines.AudioFormat(audioFormat),
			SampleRate: sampleRate,
			BitRate:    bitRate,
			Channels:   channels,
		})
		if err != nil {
			log.Error(err)
			return
		}
		fmt.Println(text)
	},
	Args: cobra.ExactArgs(1),
}

var speakCmd = &cobra.Command{
	Use:   "speak TEXT",
	Short: "Synthesize speech with a text-to-speech webhook.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd, config.KindTTS)
		if err != nil {
			log.Error(err)
			return
		}
		language, err := speechLanguage(cmd, cfg)
		if err != nil {
			log.Error(err)
			return
		}
		selectedVoice, err := cfg.SpeechVoice(voice)
		if err != nil {
			log.Error(err)
			return
		}
		ctx, cancel := signalContext()
		defer cancel()
		format, audio, err := newClient(cfg).Synthesize(ctx, args[0], language, selectedVoice)
		if err != nil {
			log.Error(err)
			return
		}
		out := outPath
		if out == "" {
			out = "speech." + format
		} else if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != format {
			log.Warnf("webhook returned %s audio, writing it to %s anyway", format, out)
		}
		if err := os.WriteFile(out, audio, 0o644); err != nil {
			log.Error(err)
			return
		}
		log.Infof("wrote %d bytes to %s", len(audio), out)
	},
	Args: cobra.ExactArgs(1),
}

// speechLanguage picks --language when it was given and otherwise the first
// supported language. When no languages are configured, loadConfig has
// already made the --language default the only supported one.
func speechLanguage(cmd *cobra.Command, cfg *config.Config) (string, error) {
	requested := ""
	if cmd.Flags().Changed("language") {
		requested = speechLang
	}
	return cfg.SpeechLanguage(requested)
}

func addSpeechFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&speechLang, "language", "en", "the speech language; when not given, the first of WEBHOOK_SUPPORTED_LANGUAGES")
}

func init() {
	addSpeechFlags(transcribeCmd)
	addSpeechFlags(speakCmd)
	transcribeCmd.Flags().StringVar(&audioFormat, "format", string(engines.AudioFormatWAV), "wav (raw PCM) or ogg")
	transcribeCmd.Flags().IntVar(&sampleRate, "sample-rate", 16000, "PCM sample rate in Hz")
	transcribeCmd.Flags().IntVar(&bitRate, "bit-rate", 16, "PCM bits per sample")
	transcribeCmd.Flags().IntVar(&channels, "channels", 1, "PCM channel count")
	speakCmd.Flags().StringVar(&voice, "voice", "", "the voice to use; unset picks the first of WEBHOOK_VOICES")
	speakCmd.Flags().StringVar(&outPath, "out", "", "where to write the audio (default speech.<format>)")
}
