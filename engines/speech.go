package engines

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ErrUnsupportedAudioFormat = errors.New("unsupported audio format")

type AudioFormat string

const (
	AudioFormatWAV AudioFormat = "wav"
	AudioFormatOGG AudioFormat = "ogg"
)

// SpeechMetadata describes the audio handed to Transcribe. For wav the audio
// is raw PCM and gets wrapped in a RIFF header before upload.
type SpeechMetadata struct {
	Language   string
	Format     AudioFormat
	SampleRate int
	BitRate    int
	Channels   int
}

type transcribePayload struct {
	Audio    BinaryObject `json:"audio"`
	Language string       `json:"language"`
}

type synthesizePayload struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice,omitempty"`
}

func (c *WebhookClient) Transcribe(ctx context.Context, audio []byte, meta SpeechMetadata) (string, error) {
	format := meta.Format
	if format == "" {
		format = AudioFormatWAV
	}
	if format == AudioFormatWAV {
		audio = EncodeWAV(audio, meta.SampleRate, meta.BitRate, meta.Channels)
	}
	filename := "audio." + string(format)
	payload := &transcribePayload{
		Audio: BinaryObject{
			Name:     filename,
			Path:     filename,
			MimeType: "audio/" + string(format),
			Data:     base64.StdEncoding.EncodeToString(audio),
		},
		Language: meta.Language,
	}
	log.Debugf("sending %d bytes of %s audio for transcription", len(audio), format)

	ctx, cancel, timeout := c.withTimeout(ctx)
	defer cancel()
	res, err := c.post(ctx, timeout, "stt", payload)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", classifyTransportErr(ctx, timeout, fmt.Errorf("failed to read webhook response: %w", err))
	}
	reply, err := c.parseResponseBody(body)
	if err != nil {
		return "", err
	}
	var text string
	if err := json.Unmarshal(reply.Raw, &text); err != nil || strings.TrimSpace(text) == "" {
		return "", &InvalidResponseError{Body: string(body)}
	}
	return strings.TrimSpace(text), nil
}

// Synthesize returns the audio format reported by the webhook's Content-Type
// (wav or mp3) and the audio bytes.
func (c *WebhookClient) Synthesize(ctx context.Context, text, language, voice string) (string, []byte, error) {
	payload := &synthesizePayload{
		Text:     text,
		Language: language,
		Voice:    voice,
	}
	ctx, cancel, timeout := c.withTimeout(ctx)
	defer cancel()
	res, err := c.post(ctx, timeout, "tts", payload)
	if err != nil {
		return "", nil, err
	}
	defer res.Body.Close()
	format, err := audioFormatFromContentType(res.Header.Get("Content-Type"))
	if err != nil {
		return "", nil, err
	}
	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return "", nil, classifyTransportErr(ctx, timeout, fmt.Errorf("failed to read webhook response: %w", err))
	}
	return format, audio, nil
}

func audioFormatFromContentType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.Contains(mediaType, "/") {
		return "", fmt.Errorf("%w: invalid content type %q", ErrUnsupportedAudioFormat, contentType)
	}
	format := mediaType[strings.LastIndex(mediaType, "/")+1:]
	switch format {
	case "wav", "mp3":
		return format, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedAudioFormat, format)
}

// EncodeWAV prefixes raw little-endian PCM samples with a canonical
// 44-byte RIFF/WAVE header.
func EncodeWAV(pcm []byte, sampleRate, bitsPerSample, channels int) []byte {
	if channels <= 0 {
		channels = 1
	}
	if bitsPerSample <= 0 {
		bitsPerSample = 16
	}
	blockAlign := channels * bitsPerSample / 8
	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
