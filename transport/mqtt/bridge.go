// Package mqtt bridges an MQTT broker to a Game's Message signals,
// grounded on the teacher's sio/siomq and sio/mqclient command-line
// clients — stripped down to the pieces those tools actually need
// (client setup, publish, subscribe-and-forward) since this package is
// a library a host wires in, not a daemon with its own main().
package mqtt

import (
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/nomyx/engine/trigger"
)

// Bridge forwards MQTT messages on a set of subscribed topics into a
// trigger.Pipeline's Message signals, and lets rule code publish
// outbound messages onto the broker via SendMessage's Hooks.Message —
// wire that up by passing Bridge.Publish as an engine.Hooks.Message
// implementation, or leave rule-originated SendMessage local-only and
// use Bridge purely for inbound traffic.
type Bridge struct {
	Client   paho.Client
	Pipeline *trigger.Pipeline
}

// NewBridge connects to broker with the given MQTT client id.
func NewBridge(broker, clientID string, pipeline *trigger.Pipeline) (*Bridge, error) {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID(clientID).SetAutoReconnect(true)
	client := paho.NewClient(opts)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", broker, tok.Error())
	}
	return &Bridge{Client: client, Pipeline: pipeline}, nil
}

// Subscribe forwards every message received on topic into the bound
// Pipeline as a Message signal named topic, with the raw MQTT payload
// bytes as the signal's payload.
func (b *Bridge) Subscribe(topic string, qos byte) error {
	tok := b.Client.Subscribe(topic, qos, func(_ paho.Client, msg paho.Message) {
		payload := append([]byte(nil), msg.Payload()...)
		b.Pipeline.InjectMessage(msg.Topic(), payload)
	})
	tok.Wait()
	return tok.Error()
}

// Publish sends payload to topic on the broker. Its signature matches
// engine.Hooks.Message so it can be wired in directly:
//
//	pipeline's EffectCtx.Hooks.Message = bridge.Publish
func (b *Bridge) Publish(topic string, payload interface{}) {
	var data []byte
	switch p := payload.(type) {
	case []byte:
		data = p
	case string:
		data = []byte(p)
	default:
		data = []byte(fmt.Sprintf("%v", p))
	}
	b.Client.Publish(topic, 0, false, data)
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	b.Client.Disconnect(250)
}
