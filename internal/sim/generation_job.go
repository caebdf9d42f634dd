package sim

import (
	"voxelcore/internal/persist"
	"voxelcore/internal/voxel"
	"voxelcore/internal/worldgen"
)

// generationJob is the only worker.Job kind this engine drives: it
// advances a chunk Missing->QueuedGenerate->Generating->GenerateComplete.
// Execute runs on a worker goroutine; OnFinished runs later on the main
// thread once the orchestrator retrieves it via Pool.RetrieveFinished.
type generationJob struct {
	chunk *voxel.Chunk
	gen   *worldgen.Generator
}

// Execute loads the chunk's save file if one exists (§4.4: "a chunk
// loaded from disk skips procedural generation entirely"), otherwise
// runs the procedural generator.
func (j *generationJob) Execute() {
	j.chunk.SetStatus(voxel.StatusGenerating)
	if persist.Exists(j.chunk.Coord) {
		if err := persist.Load(j.chunk); err != nil {
			panic(err)
		}
	} else {
		j.gen.Generate(j.chunk)
	}
	// Release: this store must happen-after every block write above so
	// the main thread's acquire-read on retrieval sees a fully
	// populated chunk.
	j.chunk.SetStatus(voxel.StatusGenerateComplete)
}

// OnFinished is intentionally empty: activation (linking neighbours,
// seeding lighting, setting StatusActive) happens in the activation
// manager once the job is retrieved, not here. A real job type could do
// lightweight finish-up work in OnFinished; this one has none.
func (j *generationJob) OnFinished() {}
