package options

// ZenFields returns the fixed field set zen mode snapshots and applies.
// Field names follow the host editor's option vocabulary.
func ZenFields() *Registry {
	r := NewRegistry()

	// Per-view display options.
	r.MustRegister(Setting{
		Name:        "number",
		Type:        TypeBool,
		Default:     true,
		Target:      false,
		Description: "Absolute line numbers",
		Scope:       ScopeView,
	})
	r.MustRegister(Setting{
		Name:        "relativenumber",
		Type:        TypeBool,
		Default:     true,
		Target:      false,
		Description: "Relative line numbers",
		Scope:       ScopeView,
	})
	r.MustRegister(Setting{
		Name:        "cursorline",
		Type:        TypeBool,
		Default:     true,
		Target:      false,
		Description: "Highlight the cursor line",
		Scope:       ScopeView,
	})
	r.MustRegister(Setting{
		Name:        "signcolumn",
		Type:        TypeString,
		Default:     "yes",
		Target:      "no",
		Description: "Sign column display mode",
		Scope:       ScopeView,
	})
	r.MustRegister(Setting{
		Name:        "colorcolumn",
		Type:        TypeString,
		Default:     "100",
		Target:      "",
		Description: "Highlighted guide columns",
		Scope:       ScopeView,
	})
	r.MustRegister(Setting{
		Name:        "foldcolumn",
		Type:        TypeInt,
		Default:     1,
		Target:      0,
		Description: "Fold indicator column width",
		Scope:       ScopeView,
	})
	r.MustRegister(Setting{
		Name:        "list",
		Type:        TypeBool,
		Default:     true,
		Target:      false,
		Description: "Render whitespace listchars",
		Scope:       ScopeView,
	})

	// Global display options.
	r.MustRegister(Setting{
		Name:        "laststatus",
		Type:        TypeInt,
		Default:     2,
		Target:      0,
		Description: "Status line height mode",
		Scope:       ScopeGlobal,
	})
	r.MustRegister(Setting{
		Name:        "showtabline",
		Type:        TypeInt,
		Default:     2,
		Target:      0,
		Description: "Tab line visibility mode",
		Scope:       ScopeGlobal,
	})
	r.MustRegister(Setting{
		Name:        "ruler",
		Type:        TypeBool,
		Default:     true,
		Target:      false,
		Description: "Cursor position in the command area",
		Scope:       ScopeGlobal,
	})
	r.MustRegister(Setting{
		Name:        "showcmd",
		Type:        TypeBool,
		Default:     true,
		Target:      false,
		Description: "Pending command display",
		Scope:       ScopeGlobal,
	})
	r.MustRegister(Setting{
		Name:        "syntax",
		Type:        TypeString,
		Default:     "on",
		Target:      "on",
		Description: "Syntax highlighting switch",
		Scope:       ScopeGlobal,
	})

	return r
}
