// Package services contains the core application services implementing
// the driving ports. Services orchestrate domain logic and driven ports
// (stores, embedding, LLM) without knowing about concrete adapters.
//
// The services and their responsibilities:
//
//   - IngestService: preprocess, chunk, embed and store source documents
//   - RetrievalService: similarity search and RAG context assembly
//   - RelevanceService: lexical relevance judgment on retrieved documents
//   - EvaluationService: LLM-judged groundedness plus aggregation
//   - ChatService: context-conditioned answer generation with sessions
//
// All services accept their collaborators through constructor injection
// and are safe for concurrent use when their collaborators are.
package services
