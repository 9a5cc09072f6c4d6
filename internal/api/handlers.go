package api

import (
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxVoicePayloadBytes caps uploaded audio at 25MB.
const maxVoicePayloadBytes = 25 * 1024 * 1024

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	respondOK(c, gin.H{
		"status":  "ok",
		"service": "voiceagent",
	})
}

// getStatus reports collaborator configuration and dataset sizes
func (s *Server) getStatus(c *gin.Context) {
	respondOK(c, gin.H{
		"transcription_mode": string(s.mode),
		"streaming_enabled":  s.coordinator.StreamingEnabled(),
		"synthesis_enabled":  s.coordinator.SynthesisEnabled(),
		"data_loaded":        s.capitals.Summary(),
	})
}

// getEntities returns the available countries and states
func (s *Server) getEntities(c *gin.Context) {
	respondOK(c, gin.H{
		"countries": s.capitals.Countries(),
		"states":    s.capitals.States(),
	})
}

// TextQueryRequest is the body of POST /api/v1/query/text
type TextQueryRequest struct {
	Text string `json:"text" binding:"required"`
}

// processText resolves a text query
func (s *Server) processText(c *gin.Context) {
	var req TextQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.countRequest("query_text", http.StatusBadRequest)
		respondError(c, http.StatusBadRequest, "text is required")
		return
	}

	result := s.coordinator.ProcessText(c.Request.Context(), req.Text)
	s.countRequest("query_text", http.StatusOK)
	c.JSON(http.StatusOK, result)
}

// VoiceQueryRequest is the JSON body of POST /api/v1/query/voice
type VoiceQueryRequest struct {
	AudioData string `json:"audio_data" binding:"required"` // Base64 encoded audio
}

// processVoice resolves a voice query. Audio arrives either as a multipart
// file upload or as base64 JSON.
func (s *Server) processVoice(c *gin.Context) {
	audio, err := s.readVoicePayload(c)
	if err != nil {
		s.countRequest("query_voice", http.StatusBadRequest)
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result := s.coordinator.ProcessVoice(c.Request.Context(), audio)

	// Serve the synthesized file by name rather than exposing the path
	if result.AudioFilePath != "" {
		result.AudioFilePath = "/api/v1/audio/" + pathBase(result.AudioFilePath)
	}

	s.countRequest("query_voice", http.StatusOK)
	c.JSON(http.StatusOK, result)
}

// getAudio serves a synthesized audio file
func (s *Server) getAudio(c *gin.Context) {
	name := c.Param("name")
	audio, ok := s.audio.Get(name)
	if !ok {
		s.countRequest("audio", http.StatusNotFound)
		respondError(c, http.StatusNotFound, "audio file not found")
		return
	}

	s.countRequest("audio", http.StatusOK)
	c.Header("Content-Type", "audio/mpeg")
	c.File(audio.Path)
}

func (s *Server) readVoicePayload(c *gin.Context) ([]byte, error) {
	contentType := c.GetHeader("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, err := c.FormFile("audio_file")
		if err != nil {
			// Mobile clients use differing field names
			if file, err = c.FormFile("audio"); err != nil {
				if file, err = c.FormFile("file"); err != nil {
					return nil, errAudioFileRequired
				}
			}
		}
		if file.Size > maxVoicePayloadBytes {
			return nil, errAudioTooLarge
		}
		src, err := file.Open()
		if err != nil {
			return nil, errAudioFileRequired
		}
		defer src.Close()
		return io.ReadAll(io.LimitReader(src, maxVoicePayloadBytes))
	}

	var req VoiceQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errAudioDataRequired
	}
	audio, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil {
		log.Printf("[API] Failed to decode base64 audio: %v", err)
		return nil, errAudioDataInvalid
	}
	if len(audio) > maxVoicePayloadBytes {
		return nil, errAudioTooLarge
	}
	return audio, nil
}

var (
	errAudioFileRequired = &requestError{"audio_file is required"}
	errAudioDataRequired = &requestError{"audio_data is required"}
	errAudioDataInvalid  = &requestError{"audio_data is not valid base64"}
	errAudioTooLarge     = &requestError{"audio payload exceeds 25MB limit"}
)

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func pathBase(path string) string {
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
