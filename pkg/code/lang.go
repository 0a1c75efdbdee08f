package code

import (
	"errors"
)

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

// Default language is English // 默认语言为英文
var lng = "en"

const FALLBACK_LNG = "en"

// supportedLanguages lists every language the lang type carries
// supportedLanguages 列出 lang 类型承载的所有语言
var supportedLanguages = []string{"en", "zh_cn"}

// messageFor returns the text for one language, empty when missing
// messageFor 返回指定语言的文本，缺失时为空
func (l lang) messageFor(language string) string {
	switch language {
	case "en":
		return l.en
	case "zh_cn":
		return l.zh_cn
	default:
		return ""
	}
}

// GetMessage returns the message for the global language, falling back to English
// GetMessage 返回全局语言对应的消息，缺失时回退英文
func (l lang) GetMessage() string {
	if lng == "" {
		lng = FALLBACK_LNG
	}
	if msg := l.messageFor(lng); msg != "" {
		return msg
	}
	if msg := l.messageFor(FALLBACK_LNG); msg != "" {
		return msg
	}
	return "No message available for language: " + lng
}

// GetSupportedLanguages returns all languages supported by the lang type
// GetSupportedLanguages 返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// SetGlobalDefaultLang sets the global default language
// 设置全局默认语言
func SetGlobalDefaultLang(language string) error {
	for _, supported := range supportedLanguages {
		if language == supported {
			lng = language
			return nil
		}
	}
	// If the language is invalid, return an error and set it to the default language
	// 如果语言无效，返回错误并设置为默认语言
	lng = FALLBACK_LNG
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang gets the global default language
// 获取全局默认语言
func GetGlobalDefaultLang() string {
	return lng
}
