package compat

import "github.com/dukex/flowgraph/pkg/models"

// DefaultDomains returns the built-in generation domains.
func DefaultDomains() []Domain {
	return []Domain{
		{
			Name:  "text",
			Types: []models.PortType{models.PortTypeText, models.PortTypePrompt},
			Accepts: map[models.PortType][]models.PortType{
				models.PortTypePrompt: {models.PortTypeText},
				models.PortTypeText:   {models.PortTypePrompt},
			},
		},
		{
			Name:  "image",
			Types: []models.PortType{models.PortTypeImage, models.PortTypeMask, models.PortTypeStyle},
			Accepts: map[models.PortType][]models.PortType{
				models.PortTypeStyle: {models.PortTypeImage},
			},
		},
		{
			Name:  "video",
			Types: []models.PortType{models.PortTypeVideo},
			Accepts: map[models.PortType][]models.PortType{
				models.PortTypeVideo: {models.PortTypeImage},
			},
		},
		{
			Name:  "audio",
			Types: []models.PortType{models.PortTypeAudio},
		},
		{
			Name:  "character",
			Types: []models.PortType{models.PortTypeCharacter},
			Accepts: map[models.PortType][]models.PortType{
				models.PortTypeCharacter: {models.PortTypeImage},
			},
		},
		{
			Name:  "interior",
			Types: []models.PortType{models.PortTypeRoom, models.PortTypeMoodboard},
			Accepts: map[models.PortType][]models.PortType{
				models.PortTypeRoom:      {models.PortTypeImage},
				models.PortTypeMoodboard: {models.PortTypeImage, models.PortTypeStyle},
			},
		},
		{
			Name:  "social",
			Types: []models.PortType{models.PortTypePost},
			Accepts: map[models.PortType][]models.PortType{
				models.PortTypePost: {models.PortTypeImage, models.PortTypeVideo, models.PortTypeText},
			},
		},
	}
}

// NewDefaultMatrix builds a matrix from DefaultDomains plus any extra domains.
func NewDefaultMatrix(extra ...Domain) (*Matrix, error) {
	registry := NewRegistry()

	for _, domain := range append(DefaultDomains(), extra...) {
		if err := registry.Register(domain); err != nil {
			return nil, err
		}
	}

	return registry.Build()
}
