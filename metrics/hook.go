package metrics

import (
	"github.com/sirupsen/logrus"
)

type hook struct {
	metrics *Metrics
}

// Hook returns a logrus hook that counts the lines of every channel.
func (m *Metrics) Hook() logrus.Hook {
	return hook{metrics: m}
}

func (hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h hook) Fire(entry *logrus.Entry) error {
	if channel, ok := entry.Data["channel"].(string); ok {
		h.metrics.ObserveLogged(channel)
	}

	return nil
}
