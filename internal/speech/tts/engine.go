package tts

import (
	"fmt"
	"os"
	"quicknote/internal/api"
	"runtime"
)

type EngineType string

const (
	EngineTypeRemote        EngineType = "remote"
	EngineTypeMock          EngineType = "mock"
	EngineTypeESpeak        EngineType = "espeak"
	EngineTypeSay           EngineType = "say" // macOS only
	EngineTypeGoogleClassic EngineType = "googleclassic"
	EngineTypeAuto          EngineType = "auto"
)

func (e EngineType) String() string {
	return string(e)
}

// NewEngine creates a TTS engine based on the provided config. The client
// backs the remote engine and may be nil for the local ones.
func NewEngine(config Config, client *api.Client) (Engine, error) {
	if config.Type == EngineTypeAuto.String() {
		config.Type = getBestEngine().String()
	}

	switch config.Type {
	case EngineTypeRemote.String():
		if client == nil {
			return nil, fmt.Errorf("remote engine needs an API client")
		}
		return NewRemoteEngine(client), nil

	case EngineTypeMock.String():
		return NewMockTTSEngine(config), nil

	case EngineTypeGoogleClassic.String():
		return newGoogleClassicTTSEngine(config.CachePath)

	case EngineTypeESpeak.String():
		return newESpeakEngine(config)

	case EngineTypeSay.String():
		if runtime.GOOS != "darwin" {
			return nil, fmt.Errorf("say engine only supports macOS")
		}
		return newSayEngine(config), nil

	default:
		return nil, fmt.Errorf("unsupported TTS engine type: %s", config.Type)
	}
}

// getBestEngine prefers Google when credentials are present and the
// backend otherwise.
func getBestEngine() EngineType {
	if hasGoogleCredentials() {
		return EngineTypeGoogleClassic
	}
	return EngineTypeRemote
}

// GetAvailableEngines returns engines usable on the current platform
func GetAvailableEngines() []EngineType {
	engines := []EngineType{EngineTypeRemote, EngineTypeMock}

	if _, err := findESpeakExecutable(); err == nil {
		engines = append(engines, EngineTypeESpeak)
	}

	if runtime.GOOS == "darwin" {
		engines = append(engines, EngineTypeSay)
	}

	if hasGoogleCredentials() {
		engines = append(engines, EngineTypeGoogleClassic)
	}

	return engines
}

// hasGoogleCredentials checks if Google Cloud credentials are available
func hasGoogleCredentials() bool {
	_, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS")
	return ok
}
