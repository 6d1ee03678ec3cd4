// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// Embeddings and chat completions go through langchaingo, so the same code
// talks to OpenAI, Groq, Ollama, or vLLM. Embeddings are unit-normalized before
// they are returned; provider failures are wrapped in ai.ErrEmbedding.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("https://api.groq.com/openai"),  // /v1 added automatically
//	    ai.WithAPIKey(os.Getenv("GROQ_API_KEY")),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "python, sql")
//	skills, err := provider.SkillExtractor().ExtractKeySkills(ctx, "Python, Machine Learning, SQL")
package openai
