package msg

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

var messages map[string]string

// init loads messages from YAML
func init() {
	path, ok := os.LookupEnv("MESSAGES_FILE_PATH")
	if !ok {
		path = "configs/messages.yml"
	}
	Init(path)
}

func Init(filepath string) {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Fail to read messages: %v", err)
	}

	messages = make(map[string]string)
	parseMessageMap("", v.AllSettings(), messages)
}

// parseMessageMap reads the message tree recursively, flattening keys
func parseMessageMap(prefix string, data map[string]any, result map[string]string) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			parseMessageMap(fullKey, v, result)
		default:
			log.Printf("Ignoring message key '%s' with unsupported type.", fullKey)
		}
	}
}

// GetMessage returns the message registered under key, formatted with args.
// Unknown keys return the key itself so a missing catalog entry is visible
// in the output instead of an empty line.
func GetMessage(key string, args ...any) string {
	message, exists := messages[key]
	if !exists {
		return key
	}
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}
