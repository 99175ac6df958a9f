package core

// Export is whatever value an evaluated bundle designates as its export.
// Evaluators hand callable exports back as a RenderFunc.
type Export any

type RenderFunc func(opts Options) (string, error)
