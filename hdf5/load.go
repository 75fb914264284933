package hdf5

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/ErikLambrechts/fishpond"
)

// A Loader sequentially loads the fish states recorded at each step.
type Loader struct {
	i uint // index of current step
	n uint // total number of steps

	data []fishpond.State // data buffer

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens a dataset of fishpond.State in an HDF5 file
// and returns an initialized loader.
func NewLoader(filepath, dataset string) (_ *Loader, err error) {
	l := new(Loader)
	defer func() {
		if err != nil {
			l.Close()
		}
	}()

	if l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY); err != nil {
		return nil, err
	}
	if l.dset, err = l.file.OpenDataset(dataset); err != nil {
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("loader: expected 2 dimensions, got %d", len(dims))
	}
	l.n = dims[0]

	if l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil); err != nil {
		return nil, err
	}
	if err := l.fspace.SelectHyperslab([]uint{0, 0}, nil, []uint{1, dims[1]}, nil); err != nil {
		return nil, err
	}

	l.data = make([]fishpond.State, dims[1])
	return l, nil
}

// Steps returns the number of recorded steps.
func (l *Loader) Steps() int {
	return int(l.n)
}

// Load returns the states of the next step, or nil once every step has been
// loaded. The returned slice is overwritten by the next call.
func (l *Loader) Load() ([]fishpond.State, error) {
	if l.i >= l.n {
		return nil, nil
	}
	if err := l.fspace.SetOffset([]uint{l.i, 0}); err != nil {
		return nil, err
	}
	if err := l.dset.ReadSubset(&l.data, l.mspace, l.fspace); err != nil {
		return nil, fmt.Errorf("reading step %d: %w", l.i, err)
	}
	l.i++
	return l.data, nil
}

// Close releases the HDF5 resources held by the loader.
func (l *Loader) Close() (err error) {
	if l.mspace != nil {
		checkClose(&err, l.mspace)
	}
	if l.fspace != nil {
		checkClose(&err, l.fspace)
	}
	if l.dset != nil {
		checkClose(&err, l.dset)
	}
	if l.file != nil {
		checkClose(&err, l.file)
	}
	return err
}
