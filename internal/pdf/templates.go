package pdf

import "github.com/techadmin009/resumegenie/internal/domain"

type rgb struct {
	r, g, b uint8
}

type sectionTitles struct {
	summary    string
	education  string
	experience string
	skills     string
}

type style struct {
	name        rgb
	nameSize    float64
	contact     rgb
	accent      rgb
	body        rgb
	headerFill  *rgb
	headerRule  bool
	sectionRule bool
	sectionSize float64
	ruleWidth   float64
	titles      sectionTitles
}

var defaultTitles = sectionTitles{
	summary:    "Professional Summary",
	education:  "Education",
	experience: "Experience",
	skills:     "Skills",
}

func styleFor(tpl domain.Template) style {
	switch tpl {
	case domain.TemplateModern:
		return style{
			name:        rgb{255, 255, 255},
			nameSize:    24,
			contact:     rgb{230, 240, 255},
			accent:      rgb{0, 102, 204},
			body:        rgb{40, 40, 40},
			headerFill:  &rgb{0, 102, 204},
			sectionRule: true,
			sectionSize: 13,
			ruleWidth:   1.2,
			titles:      defaultTitles,
		}
	case domain.TemplateCreative:
		return style{
			name:        rgb{153, 0, 76},
			nameSize:    26,
			contact:     rgb{110, 110, 110},
			accent:      rgb{153, 0, 76},
			body:        rgb{50, 50, 50},
			headerRule:  true,
			sectionSize: 13,
			ruleWidth:   1.5,
			titles: sectionTitles{
				summary:    "About Me",
				education:  "Learning Journey",
				experience: "Career Path",
				skills:     "Core Skills",
			},
		}
	case domain.TemplateMinimalist:
		return style{
			name:        rgb{60, 60, 60},
			nameSize:    20,
			contact:     rgb{130, 130, 130},
			accent:      rgb{100, 100, 100},
			body:        rgb{70, 70, 70},
			headerRule:  true,
			sectionRule: true,
			sectionSize: 11,
			ruleWidth:   0.4,
			titles:      defaultTitles,
		}
	default: // BASIC
		return style{
			name:        rgb{0, 0, 0},
			nameSize:    22,
			contact:     rgb{80, 80, 80},
			accent:      rgb{0, 0, 0},
			body:        rgb{30, 30, 30},
			headerRule:  true,
			sectionRule: true,
			sectionSize: 12,
			ruleWidth:   0.8,
			titles:      defaultTitles,
		}
	}
}
