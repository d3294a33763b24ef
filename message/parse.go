package message

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/inappmsg/trigger"
)

// definition mirrors the backend wire shape of a message.
type definition struct {
	ID       string                       `json:"id"`
	Variants map[string]map[string]string `json:"variants"`
	Triggers trigger.Expression           `json:"triggers"`
}

// ParseSet decodes a backend-provided message definition set. Individual
// malformed definitions (missing id, no variant, undecodable trigger clause)
// are logged and dropped; the rest of the set still parses. An error is
// returned only when the envelope itself is not valid JSON.
func ParseSet(data []byte) ([]*Message, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode message set: %w", err)
	}

	messages := make([]*Message, 0, len(raw))
	for i, entry := range raw {
		var def definition
		if err := json.Unmarshal(entry, &def); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "ParseSet",
				"index":    i,
				"error":    err,
			}).Warn("Dropping undecodable message definition")
			continue
		}

		msg := New(def.ID, def.Variants, def.Triggers)
		if err := msg.Validate(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "ParseSet",
				"index":      i,
				"message_id": def.ID,
				"error":      err,
			}).Warn("Dropping malformed message definition")
			continue
		}
		messages = append(messages, msg)
	}

	logrus.WithFields(logrus.Fields{
		"function": "ParseSet",
		"received": len(raw),
		"parsed":   len(messages),
	}).Debug("Parsed message definition set")

	return messages, nil
}
