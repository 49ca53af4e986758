package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/ashureev/debate-coach/internal/speech"
)

// maxAudioBytes caps uploaded recordings.
const maxAudioBytes = 10 << 20

// SpeechToText transcribes the multipart "file" upload.
func (h *Handler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		Error(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		Error(w, http.StatusBadRequest, "no audio file provided")
		return
	}
	defer func() { _ = file.Close() }()

	audio, err := io.ReadAll(file)
	if err != nil {
		Error(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	text, err := h.transcriber.Transcribe(r.Context(), audio)
	switch {
	case errors.Is(err, speech.ErrEmptyAudio):
		Error(w, http.StatusBadRequest, "audio file is empty")
	case errors.Is(err, speech.ErrNoSpeech):
		Error(w, http.StatusUnprocessableEntity, "Could not understand the audio")
	case err != nil:
		h.log.Error("Transcription failed", "error", err)
		Error(w, http.StatusBadGateway, "speech recognition service unavailable")
	default:
		JSON(w, http.StatusOK, map[string]string{"transcription": text})
	}
}
