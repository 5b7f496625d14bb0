// Package serialization saves and loads named lanes in SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, tensor name -> {dtype, shape, data_offsets}]
//	  [Tensor data: float64 LE, in alphabetical order of name]
//
// Every lane is stored as a 1-D F64 tensor. The writer records a SHA-256 of
// the data section under the "sha256" metadata key, and the reader rejects
// files whose data no longer matches it.
//
// Example usage:
//
//	err := serialization.WriteSafeTensors("ckpt.safetensors",
//	    map[string]lane.Lane{"w": {2}, "b": {1}}, nil)
//
//	lanes, meta, err := serialization.ReadSafeTensors("ckpt.safetensors")
package serialization
