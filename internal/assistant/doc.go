// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant provides the Journey360 AI travel chat.
//
// An Assistant sends one prompt at a time, prefixed with a fixed preamble
// and the current date, to an OpenRouter chat-completions model. Without an
// OpenRouter key it routes the question through the backend's /ai/chat
// endpoint instead. Upstream failures never reach the caller: the reply is
// replaced by FallbackReply and the cause is logged.
package assistant
