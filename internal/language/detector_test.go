package language

import (
	"testing"

	"golang.org/x/text/language"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want language.Tag
	}{
		{"english default", "I want to fly from Lahore to Athens", English},
		{"empty defaults english", "", English},
		{"urdu script", "مجھے لاہور سے دبئی جانا ہے", Urdu},
		{"arabic script", "أريد السفر إلى دبي", Arabic},
		{"hindi script", "मुझे दिल्ली जाना है", Hindi},
		{"russian", "Я хочу полететь в Москву", Russian},
		{"chinese", "我想订机票", Chinese},
		{"greek", "θέλω να πετάξω στην Αθήνα", Greek},
		{"spanish stopwords", "hola quiero un vuelo desde Madrid", Spanish},
		{"french stopwords", "bonjour je voudrais un vol vers Paris", French},
		{"single stopword stays english", "hola my friend", English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.text)
			if got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	const text = "hola quiero un vuelo desde Madrid hasta Barcelona"
	first := Detect(text)
	for i := 0; i < 10; i++ {
		if got := Detect(text); got != first {
			t.Fatalf("Detect() flapped: %v then %v", first, got)
		}
	}
}
