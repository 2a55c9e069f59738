package uid

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates 63-bit time ordered IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake derives the node number from the hostname so replicas of the
// same deployment are unlikely to collide.
func NewSnowflake() (*Snowflake, error) {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(host))

	return NewSnowflakeWithNode(int64(h.Sum32() % 1024))
}

// NewSnowflakeWithNode uses an explicit node number in [0, 1023].
func NewSnowflakeWithNode(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: n}, nil
}

// Generate returns the next snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
