package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	TraitOpenness          = "openness"
	TraitConscientiousness = "conscientiousness"
	TraitExtraversion      = "extraversion"
	TraitAgreeableness     = "agreeableness"
	TraitNeuroticism       = "neuroticism"
)

const (
	MinTraitValue     = 0.0
	MaxTraitValue     = 5.0
	DefaultTraitValue = 2.5

	MaxUserIDLength = 36
)

// TraitNames enumera los cinco rasgos Big-Five reconocidos, en orden canonico.
var TraitNames = []string{
	TraitOpenness,
	TraitConscientiousness,
	TraitExtraversion,
	TraitAgreeableness,
	TraitNeuroticism,
}

// Persona agrupa los cinco rasgos de personalidad de un usuario.
type Persona struct {
	UserID            string    `json:"user_id"`
	Openness          float64   `json:"openness"`
	Conscientiousness float64   `json:"conscientiousness"`
	Extraversion      float64   `json:"extraversion"`
	Agreeableness     float64   `json:"agreeableness"`
	Neuroticism       float64   `json:"neuroticism"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewPersona crea una persona con todos los rasgos en el valor por defecto.
func NewPersona(userID string) (Persona, error) {
	if err := ValidateUserID(userID); err != nil {
		return Persona{}, err
	}
	now := time.Now().UTC()
	return Persona{
		UserID:            userID,
		Openness:          DefaultTraitValue,
		Conscientiousness: DefaultTraitValue,
		Extraversion:      DefaultTraitValue,
		Agreeableness:     DefaultTraitValue,
		Neuroticism:       DefaultTraitValue,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ValidateUserID verifica que el identificador sea no vacio y de largo acotado.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return NewValidationError("user_id must be a non-empty string")
	}
	if len(userID) > MaxUserIDLength {
		return NewValidationError(fmt.Sprintf("user_id must be at most %d characters", MaxUserIDLength))
	}
	return nil
}

// ValidateTraitValue verifica que el valor este dentro del rango permitido.
func ValidateTraitValue(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewValidationError(fmt.Sprintf("%s (%v) must be a finite number", name, value))
	}
	if value < MinTraitValue || value > MaxTraitValue {
		return NewValidationError(fmt.Sprintf("%s (%v) must be between %g and %g", name, value, MinTraitValue, MaxTraitValue))
	}
	return nil
}

// IsTraitName indica si name es uno de los cinco rasgos reconocidos.
func IsTraitName(name string) bool {
	switch name {
	case TraitOpenness, TraitConscientiousness, TraitExtraversion, TraitAgreeableness, TraitNeuroticism:
		return true
	}
	return false
}

// TraitValue devuelve el valor del rasgo indicado.
func (p Persona) TraitValue(name string) (float64, error) {
	switch name {
	case TraitOpenness:
		return p.Openness, nil
	case TraitConscientiousness:
		return p.Conscientiousness, nil
	case TraitExtraversion:
		return p.Extraversion, nil
	case TraitAgreeableness:
		return p.Agreeableness, nil
	case TraitNeuroticism:
		return p.Neuroticism, nil
	}
	return 0, NewValidationError(fmt.Sprintf("trait %q not found on persona", name))
}

// SetTrait reemplaza exactamente el rasgo indicado, dejando el resto intacto.
func (p *Persona) SetTrait(name string, value float64) error {
	if !IsTraitName(name) {
		return NewValidationError(fmt.Sprintf("trait %q not found on persona", name))
	}
	if err := ValidateTraitValue(name, value); err != nil {
		return err
	}

	switch name {
	case TraitOpenness:
		p.Openness = value
	case TraitConscientiousness:
		p.Conscientiousness = value
	case TraitExtraversion:
		p.Extraversion = value
	case TraitAgreeableness:
		p.Agreeableness = value
	case TraitNeuroticism:
		p.Neuroticism = value
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidateRanges revisa los cinco rasgos contra el rango permitido.
func (p Persona) ValidateRanges() error {
	var invalid []string
	for _, name := range TraitNames {
		value, _ := p.TraitValue(name)
		if err := ValidateTraitValue(name, value); err != nil {
			invalid = append(invalid, err.Error())
		}
	}
	if len(invalid) > 0 {
		return NewValidationError(strings.Join(invalid, "; "))
	}
	return nil
}
