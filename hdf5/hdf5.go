// Package hdf5 records fishpond simulations to HDF5 files and reads them back.
package hdf5

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/hdf5"

	"github.com/ErikLambrechts/fishpond"
)

// A Dataset stipulates how to generate data and where to store them in the HDF5 file.
type Dataset struct {
	// Name the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type of the data.
	Val interface{}

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Data is a function that produces the data
	// as a pointer to a slice of row-major concrete values.
	Data func(s *fishpond.Simulation) interface{}

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string     // path of output file
	Steps    int        // total number of steps
	Step     func()     // go to next step
	Datasets []*Dataset // list of datasets

	// Attrs is a struct whose numeric, boolean and string fields are
	// saved as attributes of the "config" dataset. Nested structs are
	// flattened with dotted names.
	Attrs interface{}

	Logger *zap.Logger
}

// Run runs a simulation and saves data to an HDF5 file.
func Run(s *fishpond.Simulation, conf *Config) (err error) {
	log := conf.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("creating %s: %w", conf.Output, err)
	}
	defer checkClose(&err, file)

	id := uuid.New()
	if err := saveConfig(file, conf, id); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return fmt.Errorf("creating dataset %q: %w", d.Name, err)
		}
		defer checkClose(&err, d)
	}

	log.Info("Recording started",
		zap.String("output", conf.Output),
		zap.Stringer("run", id),
		zap.Int("steps", conf.Steps))

	start := time.Now()
	percent := -10
	for k := uint(0); k < uint(conf.Steps); k++ {
		if p := int(100 * k / uint(conf.Steps)); p/10 != percent/10 {
			percent = p
			log.Info("Recording", zap.Int("percent", p), zap.Uint("step", k))
		}

		for _, d := range conf.Datasets {
			offset := make([]uint, len(d.Dims)+1)
			offset[0] = k
			if err := d.fspace.SetOffset(offset); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(s), d.mspace, d.fspace); err != nil {
				return fmt.Errorf("writing %q at step %d: %w", d.Name, k, err)
			}
		}

		conf.Step()
	}

	log.Info("Recording done", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// saveConfig creates a "config" dataset with a null dataspace whose attributes
// reflect the whole configuration plus some other appropriate metadata.
func saveConfig(file *hdf5.File, conf *Config, id uuid.UUID) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	now := time.Now().String()
	if err := writeAttr(dset, scalar, "Time", &now); err != nil {
		return err
	}
	run := id.String()
	if err := writeAttr(dset, scalar, "Run", &run); err != nil {
		return err
	}

	if conf.Attrs == nil {
		return nil
	}
	return saveFields(dset, scalar, "", reflect.Indirect(reflect.ValueOf(conf.Attrs)))
}

// saveFields writes the leaf fields of struct v as attributes of dset.
func saveFields(dset *hdf5.Dataset, scalar *hdf5.Dataspace, prefix string, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		name := prefix + f.Name
		fv := v.Field(i)

		var val interface{}
		switch fv.Kind() {
		case reflect.Struct:
			if err := saveFields(dset, scalar, name+".", fv); err != nil {
				return err
			}
			continue
		case reflect.Bool:
			// HDF5 has no native boolean type
			b := int8(0)
			if fv.Bool() {
				b = 1
			}
			val = &b
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64, reflect.String:
			p := reflect.New(fv.Type())
			p.Elem().Set(fv)
			val = p.Interface()
		default:
			continue
		}
		if err := writeAttr(dset, scalar, name, val); err != nil {
			return fmt.Errorf("attribute %s: %w", name, err)
		}
	}
	return nil
}

// writeAttr writes the value pointed to by ptr as a scalar attribute.
func writeAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, ptr interface{}) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	return attr.Write(ptr, dtype)
}

// init creates the dataset and its dataspaces.
func (d *Dataset) init(file *hdf5.File, conf *Config) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	udims := make([]uint, len(d.Dims)+1)
	udims[0] = uint(conf.Steps)
	for i, n := range d.Dims {
		udims[i+1] = uint(n)
	}

	d.fspace, err = hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return err
	}

	start := make([]uint, len(udims))
	count := make([]uint, len(udims))
	copy(count, udims)
	count[0] = 1

	if err := d.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	if len(d.Dims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(udims[1:], nil)
	}
	if err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	if err != nil {
		checkClose(&err, d.fspace)
		checkClose(&err, d.mspace)
	}

	return err
}

// Close closes the HDF5 dataset and Dataspaces.
func (d *Dataset) Close() error {
	if err := d.dset.Close(); err != nil {
		return err
	}
	if err := d.mspace.Close(); err != nil {
		return err
	}
	if err := d.fspace.Close(); err != nil {
		return err
	}
	return nil
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
