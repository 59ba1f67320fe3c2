package main

import (
	"github.com/rankingdocopo/core/internal/app"
	"github.com/rankingdocopo/core/internal/config"
)

func main() {
	app.Go(config.Load())
}
