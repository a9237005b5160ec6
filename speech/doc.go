// Package speech provides a scripted implementation of the speech
// collaborator. StaticEngine maps audio references to canned transcriptions
// and synthesizes deterministic audio references, which is enough for tests
// and for running the pipeline without a real ASR/TTS backend. Unknown audio
// yields a blank transcription ("no speech detected"), never an error.
package speech
