package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
	"github.com/wattbuild/costreport-go/internal/shared/types"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	// Lê o arquivo
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}

	return &config, nil
}

// validateConfig rejeita valores que falhariam mais tarde no export, para que
// o erro aponte para o arquivo e não para o meio do fluxo.
func validateConfig(config *types.Config) error {
	if n := len(config.Margins); n != 0 && n != 4 {
		return fmt.Errorf("margins_mm must have four values (left, top, right, bottom), got %d", n)
	}
	for _, m := range config.Margins {
		if m < 0 {
			return fmt.Errorf("margins_mm values must not be negative, got %v", m)
		}
	}
	switch strings.ToLower(config.Orientation) {
	case "", "p", "portrait", "l", "landscape":
	default:
		return fmt.Errorf("unknown page orientation %q", config.Orientation)
	}
	switch strings.ToLower(config.PageSize) {
	case "", "a4", "letter":
	default:
		return fmt.Errorf("unknown page size %q", config.PageSize)
	}
	return nil
}
