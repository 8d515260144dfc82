package domain

const (
	DefaultFontSize    = 11
	DefaultMargins     = 1.0
	DefaultLineSpacing = 1.0
)

// RenderSettings controls page layout of the typeset document.
// Margins are in centimetres.
type RenderSettings struct {
	FontSize    int     `json:"fontSize" mapstructure:"font_size" validate:"min=8,max=14"`
	Margins     float64 `json:"margins" mapstructure:"margins" validate:"gt=0,lte=5"`
	LineSpacing float64 `json:"lineSpacing" mapstructure:"line_spacing" validate:"gt=0,lte=3"`
	CompactMode bool    `json:"compactMode" mapstructure:"compact_mode"`
}

func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		FontSize:    DefaultFontSize,
		Margins:     DefaultMargins,
		LineSpacing: DefaultLineSpacing,
	}
}

// Normalize returns a copy with every non-positive field replaced by its default.
func (s RenderSettings) Normalize() RenderSettings {
	if s.FontSize <= 0 {
		s.FontSize = DefaultFontSize
	}
	if s.Margins <= 0 {
		s.Margins = DefaultMargins
	}
	if s.LineSpacing <= 0 {
		s.LineSpacing = DefaultLineSpacing
	}
	return s
}

// PartialSettings is a sparse settings payload where nil means "use the base value".
type PartialSettings struct {
	FontSize    *int     `json:"fontSize,omitempty" validate:"omitempty,min=8,max=14"`
	Margins     *float64 `json:"margins,omitempty" validate:"omitempty,gt=0,lte=5"`
	LineSpacing *float64 `json:"lineSpacing,omitempty" validate:"omitempty,gt=0,lte=3"`
	CompactMode *bool    `json:"compactMode,omitempty"`
}

// Apply overlays the set fields of p on base.
func (p *PartialSettings) Apply(base RenderSettings) RenderSettings {
	if p == nil {
		return base.Normalize()
	}
	if p.FontSize != nil {
		base.FontSize = *p.FontSize
	}
	if p.Margins != nil {
		base.Margins = *p.Margins
	}
	if p.LineSpacing != nil {
		base.LineSpacing = *p.LineSpacing
	}
	if p.CompactMode != nil {
		base.CompactMode = *p.CompactMode
	}
	return base.Normalize()
}
