package textutil

import (
	"sync"
	"unicode"

	"github.com/longbridgeapp/opencc"
)

var traditionalToSimplified = sync.OnceValues(func() (*opencc.OpenCC, error) {
	return opencc.New("t2s")
})

// IsChinese reports whether s contains at least one Han character.
func IsChinese(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// ToSimplified converts traditional Chinese characters in s to simplified ones.
func ToSimplified(s string) (string, error) {
	cc, err := traditionalToSimplified()
	if err != nil {
		return "", err
	}
	return cc.Convert(s)
}

// IsSimplifiedChinese reports whether s is Chinese and already in simplified script,
// i.e. converting it to simplified characters leaves it unchanged.
func IsSimplifiedChinese(s string) bool {
	if !IsChinese(s) {
		return false
	}
	simplified, err := ToSimplified(s)
	if err != nil {
		return false
	}
	return simplified == s
}
