package entity

import "time"

// Business representa una organización/tenant del marketplace. Todo recurso
// interno (usuarios, productos) queda acotado al Business del actor.
type Business struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
