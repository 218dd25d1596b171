// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/telemetry_display/internal/env"
	"github.com/relabs-tech/telemetry_display/internal/gps"
)

// FixHandler decodes GPS fixes published by the gps producer into the store.
func FixHandler(st *Store) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("telemetry: gps unmarshal error on %s: %v", msg.Topic(), err)
			return
		}
		st.ApplyFix(f)
	}
}

// EnvHandler decodes BMP samples published by the env producer into the store.
func EnvHandler(st *Store) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		var e env.Sample
		if err := json.Unmarshal(msg.Payload(), &e); err != nil {
			log.Printf("telemetry: env unmarshal error on %s: %v", msg.Topic(), err)
			return
		}
		st.ApplyEnv(e)
	}
}

// Subscribe feeds the store from the GPS and environment topics.
func Subscribe(client mqtt.Client, st *Store, gpsTopic, envTopic string) error {
	subs := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{gpsTopic, FixHandler(st)},
		{envTopic, EnvHandler(st)},
	}
	for _, s := range subs {
		token := client.Subscribe(s.topic, 0, s.handler)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("telemetry: subscribed to %s", s.topic)
	}
	return nil
}
