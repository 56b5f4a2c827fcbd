package config

// ModuleFileExt is the extension of serialized module ASTs.
const ModuleFileExt = ".mod.yaml"

// ModuleFileExtensions are all recognized module file extensions
var ModuleFileExtensions = []string{".mod.yaml", ".mod.yml"}

// ConfigFileNames are searched, in order, by FindConfig.
var ConfigFileNames = []string{"specsema.yaml", "specsema.yml"}

// Name of the root scope that holds the built-in symbols.
const GlobalModuleName = "Global"

// Built-in math type names
const (
	EntityTypeName   = "Entity"
	ElementTypeName  = "Element"
	ClsTypeName      = "Cls"
	MTypeTypeName    = "MType"
	SSetTypeName     = "SSet"
	BooleanTypeName  = "B"
	EmptySetTypeName = "Empty_Set"
	VoidTypeName     = "Void"
)

// Built-in math symbol names
const (
	TrueName     = "true"
	FalseName    = "false"
	PowersetName = "Powerset"
	NotName      = "not"
	AndName      = "and"
	OrName       = "or"
	ImpliesName  = "implies"
	IffName      = "iff"
	EqualsName   = "="
	NotEqualName = "/="
)

// Program type names that literals resolve against
const (
	IntegerProgramTypeName   = "Integer"
	CharacterProgramTypeName = "Character"
	StringProgramTypeName    = "Char_Str"
	BooleanProgramTypeName   = "Boolean"
)

// Reserved names inside declarations
const (
	ConcName         = "Conc"
	ExemplarConcName = "conc"
)

// AutoImportModules are imported into every program module (concepts,
// realizations, enhancements, facilities) unless excluded below.
// Order matters: later entries may import earlier ones.
var AutoImportModules = []string{
	"Std_Boolean_Fac",
	"Std_Integer_Fac",
	"Std_Character_Fac",
	"Std_Char_Str_Fac",
}

// NoAutoImportModules never receive AutoImportModules; the standard
// facilities are built from these templates.
var NoAutoImportModules = []string{
	"Boolean_Template",
	"Integer_Template",
	"Character_Template",
	"Char_Str_Template",
}
