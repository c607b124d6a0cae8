package ports

import "github.com/bft-labs/fishery/pkg/log"

// Logger is the structured logging port. Adapters live in pkg/log.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field
