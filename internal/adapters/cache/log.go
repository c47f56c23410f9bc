package cache

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "cache")
