package analyzer

import "github.com/mkraus/slovnik/internal/apperr"

// Balancer is a round-robin selector over analyzer endpoints. It is a value
// object: PickNext returns the chosen endpoint together with the successor
// state instead of mutating shared state.
type Balancer struct {
	Endpoints []string
	Next      int
}

// PickNext returns the next endpoint in rotation and the advanced balancer.
func (b Balancer) PickNext() (string, Balancer, error) {
	if len(b.Endpoints) == 0 {
		return "", b, apperr.ErrNoEndpoints
	}
	i := b.Next % len(b.Endpoints)
	endpoint := b.Endpoints[i]
	b.Next = (i + 1) % len(b.Endpoints)
	return endpoint, b, nil
}
