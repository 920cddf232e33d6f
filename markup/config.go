package markup

// Config configures the goldmark renderer. Field names follow the
// configuration keys (markup.extensions.table, markup.renderer.unsafe, ...).
type Config struct {
	Renderer     RendererConfig `mapstructure:"renderer"`
	Parser       ParserConfig   `mapstructure:"parser"`
	Extensions   Extensions     `mapstructure:"extensions"`
	Highlighting Highlighting   `mapstructure:"highlighting"`
}

// RendererConfig holds goldmark HTML renderer options.
type RendererConfig struct {
	// Whether softline breaks should be rendered as '<br>'
	HardWraps bool `mapstructure:"hard_wraps"`

	// XHTML instead of HTML5.
	XHTML bool `mapstructure:"xhtml"`

	// Allow raw HTML. Page rendering relies on it to keep hidden blocks.
	Unsafe bool `mapstructure:"unsafe"`
}

type ParserConfig struct {
	// Generate id attributes for headings.
	AutoHeadingID bool `mapstructure:"auto_heading_id"`

	// Enables {#id .class} attributes on headings and blocks.
	Attribute bool `mapstructure:"attribute"`
}

type Extensions struct {
	Typographer    bool `mapstructure:"typographer"`
	Footnote       bool `mapstructure:"footnote"`
	DefinitionList bool `mapstructure:"definition_list"`

	// GitHub flavored markdown
	Table         bool `mapstructure:"table"`
	Strikethrough bool `mapstructure:"strikethrough"`
	Linkify       bool `mapstructure:"linkify"`
	TaskList      bool `mapstructure:"task_list"`
}

type Highlighting struct {
	Enabled bool   `mapstructure:"enabled"`
	Style   string `mapstructure:"style"`
}

// Default holds the default configuration. Extensions match what kramdown
// renders out of the box; typographic replacements stay off so code-like
// titles and bodies come through unchanged.
var Default = Config{
	Extensions: Extensions{
		Footnote:       true,
		DefinitionList: true,
		Table:          true,
		Strikethrough:  true,
		Linkify:        false,
		TaskList:       true,
	},
	Renderer: RendererConfig{
		Unsafe: true,
	},
	Parser: ParserConfig{
		AutoHeadingID: true,
	},
	Highlighting: Highlighting{
		Enabled: false,
		Style:   "monokai",
	},
}
