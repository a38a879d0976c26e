//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/djvaroli/brevity/internal/bootstrap"
	"github.com/djvaroli/brevity/internal/domain/summarizer"
	"github.com/djvaroli/brevity/internal/infra/config"
	"github.com/djvaroli/brevity/internal/infra/document"
	"github.com/djvaroli/brevity/internal/infra/llm/chatgpt"
	"github.com/djvaroli/brevity/internal/infra/tokenizer"
	httpiface "github.com/djvaroli/brevity/internal/interface/http"
	"github.com/djvaroli/brevity/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideServiceConfig,
		provideChatGPTClient,
		tokenizer.NewRegistry,
		provideFetcher,
		document.NewExtractor,
		provideArtifactSink,
		provideOrchestrator,
		provideCache,
		provideHistory,
		provideDependencies,
		summarizer.NewService,
		wire.Bind(new(summarizer.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(summarizer.TokenizerProvider), new(*tokenizer.Registry)),
		wire.Bind(new(summarizer.DocumentSource), new(*document.Fetcher)),
		wire.Bind(new(summarizer.TextExtractor), new(*document.Extractor)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
