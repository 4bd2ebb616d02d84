package registry

import "github.com/dukex/flowgraph/pkg/models"

func port(id, name string, portType models.PortType, required, multiple bool) models.Port {
	return models.Port{ID: id, Name: name, PortType: portType, Required: required, AcceptsMultiple: multiple}
}

// DefaultNodeTypes returns the built-in generation node types.
func DefaultNodeTypes() []NodeType {
	return []NodeType{
		{
			ID:          "text-prompt",
			Name:        "Text Prompt",
			Description: "Free text entered by the user",
			Category:    models.CategorySource,
			Outputs:     []models.Port{port("text", "Text", models.PortTypeText, false, false)},
		},
		{
			ID:          "image-upload",
			Name:        "Image Upload",
			Description: "An image asset uploaded to the board",
			Category:    models.CategorySource,
			Outputs:     []models.Port{port("image", "Image", models.PortTypeImage, false, false)},
		},
		{
			ID:          "image-generator",
			Name:        "Image Generator",
			Description: "Generates an image from a prompt",
			Category:    models.CategoryGenerator,
			Inputs: []models.Port{
				port("prompt", "Prompt", models.PortTypePrompt, true, false),
				port("style", "Style", models.PortTypeStyle, false, false),
				port("reference", "Reference Images", models.PortTypeImage, false, true),
			},
			Outputs: []models.Port{port("image", "Image", models.PortTypeImage, false, false)},
		},
		{
			ID:          "upscaler",
			Name:        "Upscaler",
			Description: "Increases image resolution",
			Category:    models.CategoryTransform,
			Inputs:      []models.Port{port("image", "Image", models.PortTypeImage, true, false)},
			Outputs:     []models.Port{port("image", "Image", models.PortTypeImage, false, false)},
		},
		{
			ID:          "image-to-video",
			Name:        "Image to Video",
			Description: "Animates a still image",
			Category:    models.CategoryGenerator,
			Inputs: []models.Port{
				port("frame", "First Frame", models.PortTypeImage, true, false),
				port("prompt", "Motion Prompt", models.PortTypePrompt, false, false),
			},
			Outputs: []models.Port{port("video", "Video", models.PortTypeVideo, false, false)},
		},
		{
			ID:          "room-designer",
			Name:        "Room Designer",
			Description: "Restyles a room photo",
			Category:    models.CategoryGenerator,
			Inputs: []models.Port{
				port("roomImage", "Room Image", models.PortTypeRoom, true, false),
				port("moodboard", "Moodboard", models.PortTypeMoodboard, false, false),
			},
			Outputs: []models.Port{port("image", "Image", models.PortTypeImage, false, false)},
		},
		{
			ID:          "moodboard",
			Name:        "Moodboard",
			Description: "Collects reference images into a moodboard",
			Category:    models.CategoryTransform,
			Inputs:      []models.Port{port("images", "Images", models.PortTypeImage, true, true)},
			Outputs:     []models.Port{port("moodboard", "Moodboard", models.PortTypeMoodboard, false, false)},
		},
		{
			ID:          "character-creator",
			Name:        "Character Creator",
			Description: "Builds a reusable character from reference images",
			Category:    models.CategoryGenerator,
			Inputs: []models.Port{
				port("reference", "Reference", models.PortTypeCharacter, true, false),
				port("prompt", "Prompt", models.PortTypePrompt, false, false),
			},
			Outputs: []models.Port{port("character", "Character", models.PortTypeCharacter, false, false)},
		},
		{
			ID:          "post-composer",
			Name:        "Post Composer",
			Description: "Composes a social post from media and copy",
			Category:    models.CategoryTransform,
			Inputs: []models.Port{
				port("media", "Media", models.PortTypePost, true, true),
				port("caption", "Caption", models.PortTypeText, false, false),
			},
			Outputs: []models.Port{port("post", "Post", models.PortTypePost, false, false)},
		},
		{
			ID:          "export",
			Name:        "Export",
			Description: "Writes results to the asset library",
			Category:    models.CategorySink,
			Inputs:      []models.Port{port("input", "Input", models.PortTypeAny, true, true)},
		},
		{
			ID:          "preview",
			Name:        "Preview",
			Description: "Shows any value on the board",
			Category:    models.CategorySink,
			Inputs:      []models.Port{port("input", "Input", models.PortTypeAny, false, false)},
		},
		{
			ID:          "note",
			Name:        "Note",
			Description: "A comment on the board",
			Category:    models.CategoryAnnotation,
			Standalone:  true,
		},
	}
}

// RegisterDefaultNodes registers all built-in node types with the registry.
func (r *Registry) RegisterDefaultNodes() error {
	for _, nodeType := range DefaultNodeTypes() {
		if err := r.RegisterNodeType(nodeType); err != nil {
			return err
		}
	}

	return nil
}
