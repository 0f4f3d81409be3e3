package output

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/tripleforge/catalog"
	"github.com/c360studio/tripleforge/gen"
)

// Publisher streams triples to NATS, one message per triple, on
// {prefix}.{subject}.{schema}.{format}. Downstream trainers consume the
// stream instead of collecting files.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url, prefix string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = "tripleforge.samples"
	}
	conn, err := nats.Connect(url, nats.Name("tripleforge-publisher"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS %s: %w", url, err)
	}
	return &Publisher{conn: conn, prefix: prefix, logger: logger}, nil
}

// WriteBatch implements Sink.
func (p *Publisher) WriteBatch(ctx context.Context, ref catalog.Ref, format catalog.Format, triples []gen.Triple) error {
	subj := p.subjectFor(ref, format)
	for i, triple := range triples {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(triple)
		if err != nil {
			return fmt.Errorf("marshal triple %d: %w", i, err)
		}
		if err := p.conn.Publish(subj, data); err != nil {
			return fmt.Errorf("publish to %s: %w", subj, err)
		}
	}
	if err := p.conn.Flush(); err != nil {
		return fmt.Errorf("flush publisher: %w", err)
	}

	p.logger.Debug("Published batch",
		"subject", subj,
		"triples", len(triples))
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// subjectFor builds the NATS subject. Dots inside catalog names are
// replaced so each part stays a single token.
func (p *Publisher) subjectFor(ref catalog.Ref, format catalog.Format) string {
	clean := func(s string) string { return strings.ReplaceAll(s, ".", "-") }
	return fmt.Sprintf("%s.%s.%s.%s", p.prefix, clean(ref.Subject), clean(ref.Name), format)
}
