// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

// Package reranking implements post-processing passes for recommendation
// diversity.
//
// Rerankers run after the engine has merged and priority-sorted the
// suggestions of all strategies, and choose the final list:
//
//	Strategies -> Merge + Dedup -> Priority sort -> Reranker -> Top k
//
// # Maximal Marginal Relevance
//
// MMR trades priority for category variety so that, for example, a list
// dominated by red meats also surfaces legumes or leafy greens. The
// recommend.diversity setting maps onto lambda = 1 - diversity; the default
// of 0 installs no reranker at all.
//
//	engine.SetReranker(reranking.NewDiversity(0.3))
//
// All rerankers implement recommend.Reranker.
package reranking
