package physics2d

import (
	"sort"
	"testing"
)

func TestGetWorkerStartIndexCoversEveryBlockExactlyOnce(t *testing.T) {
	blockCount, workerCount := 17, 4
	starts := make([]int, 0, workerCount)
	for w := 0; w < workerCount; w++ {
		s := GetWorkerStartIndex(w, blockCount, workerCount)
		if s >= 0 {
			starts = append(starts, s)
		}
	}
	sort.Ints(starts)
	if starts[0] != 0 {
		t.Fatalf("expected first worker to start at block 0, got %v", starts)
	}
	// Each worker's share runs from its start to the next worker's start
	// (the last to blockCount); every share must be 4 or 5 blocks long.
	for i := range starts {
		end := blockCount
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if size := end - starts[i]; size != blockCount/workerCount && size != blockCount/workerCount+1 {
			t.Fatalf("worker share %d has %d blocks, starts %v", i, size, starts)
		}
	}
}

func TestGetWorkerStartIndexIsPureAndDeterministic(t *testing.T) {
	for trial := 0; trial < 5; trial++ {
		a := GetWorkerStartIndex(2, 10, 3)
		b := GetWorkerStartIndex(2, 10, 3)
		if a != b {
			t.Fatalf("GetWorkerStartIndex is not pure: %d != %d", a, b)
		}
	}
}

func TestGetWorkerStartIndexFewerBlocksThanWorkers(t *testing.T) {
	if s := GetWorkerStartIndex(5, 3, 8); s != -1 {
		t.Fatalf("expected no work (-1) for worker beyond blockCount, got %d", s)
	}
	if s := GetWorkerStartIndex(1, 3, 8); s != 1 {
		t.Fatalf("expected worker 1 to claim block 1 when blockCount < workerCount, got %d", s)
	}
}

func TestExecuteStageClaimsEveryBlockExactlyOnce(t *testing.T) {
	stage := &Stage{Blocks: make([]Block, 20)}
	claims := make([]int32, 20)

	workerCount := 4
	for w := 0; w < workerCount; w++ {
		ExecuteStage(stage, 0, 1, w, workerCount, func(b *Block) {
			idx := -1
			for i := range stage.Blocks {
				if &stage.Blocks[i] == b {
					idx = i
					break
				}
			}
			claims[idx]++
		})
	}

	for i, c := range claims {
		if c != 1 {
			t.Fatalf("block %d claimed %d times, expected exactly 1", i, c)
		}
	}
}

func TestSpinBroadcastPackUnpack(t *testing.T) {
	var sb SpinBroadcast
	sb.Publish(3, 7)
	stageIndex, syncIndex := unpackSyncBits(sb.Load())
	if stageIndex != 3 || syncIndex != 7 {
		t.Fatalf("expected (3,7), got (%d,%d)", stageIndex, syncIndex)
	}
}

func TestSpinBroadcastStopSentinel(t *testing.T) {
	var sb SpinBroadcast
	sb.Stop()
	if sb.Load() != stopSentinel {
		t.Fatalf("expected stop sentinel after Stop()")
	}
}
