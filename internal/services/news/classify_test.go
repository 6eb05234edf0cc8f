package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier()

	t.Run("matches default keywords case-insensitively", func(t *testing.T) {
		assert.True(t, c.Relevant("FEMINICÍDIO em SP", ""))
		assert.True(t, c.Relevant("Tragédia", "ex-marido matou a vítima"))
		assert.False(t, c.Relevant("Eleições municipais", "resultado do segundo turno"))
	})

	t.Run("custom keyword list replaces the default", func(t *testing.T) {
		custom := NewKeywordClassifier("homicídio")
		assert.True(t, custom.Relevant("Homicídio registrado", ""))
		assert.False(t, custom.Relevant("feminicídio", ""))
	})
}

func TestExtraction(t *testing.T) {
	t.Run("location with multi-word city", func(t *testing.T) {
		assert.Equal(t, "Belo Horizonte, MG", extractLocation("crime em Belo Horizonte, MG ontem"))
	})

	t.Run("location absent", func(t *testing.T) {
		assert.Equal(t, "", extractLocation("sem localidade no texto"))
	})

	t.Run("age within plausible bounds", func(t *testing.T) {
		assert.Equal(t, 28, extractAge("vítima de 28 anos"))
		assert.Equal(t, 0, extractAge("menina de 3 anos"), "below bound")
		assert.Equal(t, 0, extractAge("nenhuma idade"))
	})

	t.Run("circumstances accumulate matched categories", func(t *testing.T) {
		got := extractCircumstances("marido atacou com faca")
		assert.Contains(t, got, "Violência doméstica")
		assert.Contains(t, got, "Arma branca")
	})

	t.Run("circumstances default when nothing matches", func(t *testing.T) {
		assert.Equal(t, "Circunstâncias não informadas", extractCircumstances("texto neutro"))
	})
}
