// Package speech transcribes recorded arguments to text.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gspeech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// DefaultLanguage is used when no language code is configured.
const DefaultLanguage = "en-US"

var (
	// ErrNoSpeech is returned when the audio contained no recognizable speech.
	ErrNoSpeech = errors.New("could not understand the audio")
	// ErrEmptyAudio is returned for zero-length uploads.
	ErrEmptyAudio = errors.New("audio is empty")
)

// Transcriber turns audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// GoogleTranscriber uses Google Cloud Speech synchronous recognition.
// The encoding is left unspecified so WAV and FLAC headers drive decoding.
type GoogleTranscriber struct {
	client    *gspeech.Client
	recognize recognizeFunc
	language  string
}

// NewGoogleTranscriber creates a client using Application Default Credentials.
func NewGoogleTranscriber(ctx context.Context, language string) (*GoogleTranscriber, error) {
	client, err := gspeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	t := newTranscriber(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return client.Recognize(ctx, req)
	}, language)
	t.client = client
	return t, nil
}

func newTranscriber(fn recognizeFunc, language string) *GoogleTranscriber {
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}
	return &GoogleTranscriber{recognize: fn, language: language}
}

// Transcribe returns the best transcript for audio.
func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	resp, err := t.recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_ENCODING_UNSPECIFIED,
			LanguageCode:               t.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize speech: %w", err)
	}

	text := transcript(resp)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Close releases the underlying client.
func (t *GoogleTranscriber) Close() error {
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}

// transcript joins the top alternative of every result.
func transcript(resp *speechpb.RecognizeResponse) string {
	if resp == nil {
		return ""
	}
	parts := make([]string, 0, len(resp.GetResults()))
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if s := strings.TrimSpace(alts[0].GetTranscript()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
