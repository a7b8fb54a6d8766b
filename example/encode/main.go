package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/genomisc"
	"github.com/carbocation/gtarray"
	"github.com/carbocation/pfx"
	"go.uber.org/zap"
)

// Reads a tab-delimited genotype matrix: a header of "sample" followed by one
// variant per column, then one row per sample. A variant header is either
// chrom:pos:id:ref:alt1,alt2 or a variant ID found in the -bim file.
func main() {
	path := flag.String("tsv", "", "Tab-delimited genotype matrix to process")
	bimPath := flag.String("bim", "", "Optional PLINK .bim file describing the variant columns")
	encoding := flag.String("encoding", "additive", "One of additive, dominant, recessive, codominant")
	minMAF := flag.Float64("maf", 0, "Drop variants whose minor allele frequency is below this value")
	minHWE := flag.Float64("hwe", 0, "Drop variants whose HWE p-value is below this value")
	out := flag.String("out", "", "If set, write the filtered columns to this .gtca file")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatal("No genotype matrix found")
	}
	*path = expandHome(*path)

	var bim map[string]genomisc.BIMRow
	if *bimPath != "" {
		bim, err = readBIM(expandHome(*bimPath))
		if err != nil {
			log.Fatal(err)
		}
		log.Infow("Loaded BIM", "variants", len(bim))
	}

	frame, err := readMatrix(*path, bim)
	if err != nil {
		log.Fatal(err)
	}
	log.Infow("Loaded genotype matrix", "samples", frame.NRows(), "variants", len(frame.Names()))

	frame = frame.FilterMAF(*minMAF).FilterHWE(*minHWE)
	log.Infow("Filtered", "variants", len(frame.Names()))

	mafs, hwes := frame.MAF(), frame.HWEPValues()
	for i, info := range frame.VariantInfo() {
		fmt.Printf("%s\t%s:%d\t%s>%s\tMAF=%.4f\tHWE=%.4g\n",
			info.Column, info.Chromosome, info.Position, info.Ref, strings.Join(info.Alt, ","), mafs[i], hwes[i])
	}

	samples := frame.Samples()
	switch *encoding {
	case "codominant":
		for name, cat := range frame.EncodeCodominant() {
			fmt.Println(name, strings.Join(cat.Labels(), " "))
		}
	default:
		var enc gtarray.NumericEncoding
		switch *encoding {
		case "additive":
			enc = gtarray.Additive{}
		case "dominant":
			enc = gtarray.Dominant{}
		case "recessive":
			enc = gtarray.Recessive{}
		default:
			log.Fatalf("Encoding %q is not recognized", *encoding)
		}
		encoded, err := frame.Encode(enc)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("sample\t" + strings.Join(encoded.Names, "\t"))
		for row := range samples {
			fields := []string{samples[row].SampleID}
			for _, col := range encoded.Values {
				fields = append(fields, strconv.FormatFloat(col[row], 'g', -1, 64))
			}
			fmt.Println(strings.Join(fields, "\t"))
		}
	}

	if *out != "" {
		f, err := os.Create(expandHome(*out))
		if err != nil {
			log.Fatal(pfx.Err(err))
		}
		defer f.Close()
		w := bufio.NewWriter(f)
		if err := gtarray.WriteFrame(w, frame); err != nil {
			log.Fatal(err)
		}
		if err := w.Flush(); err != nil {
			log.Fatal(pfx.Err(err))
		}
		log.Infow("Wrote column file", "path", *out)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		return path
	}
	return filepath.Join(usr.HomeDir, path[2:])
}

// readBIM keys the rows of a PLINK .bim file by variant ID.
func readBIM(path string) (map[string]genomisc.BIMRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	out := make(map[string]genomisc.BIMRow)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		cols := strings.Fields(scanner.Text())
		if len(cols) < 6 {
			continue
		}
		pos, err := strconv.ParseUint(cols[genomisc.Coordinate], 10, 32)
		if err != nil {
			return nil, pfx.Err(err)
		}
		row := genomisc.BIMRow{
			Chromosome: cols[genomisc.Chromosome],
			Coordinate: uint32(pos),
			VariantID:  cols[genomisc.VariantID],
			Allele1:    cols[genomisc.Allele1],
			Allele2:    cols[genomisc.Allele2],
		}
		out[row.VariantID] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}

func parseHeader(field string, bim map[string]genomisc.BIMRow) (*gtarray.Variant, error) {
	if row, ok := bim[field]; ok {
		return gtarray.VariantFromBIM(row)
	}
	parts := strings.Split(field, ":")
	if len(parts) != 5 {
		return nil, fmt.Errorf("column %q is neither chrom:pos:id:ref:alts nor a BIM variant ID", field)
	}
	pos, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", field, err)
	}
	var alts []string
	if parts[4] != "" {
		alts = strings.Split(parts[4], ",")
	}
	return gtarray.NewVariant(parts[0], uint32(pos), parts[2], parts[3], alts...)
}

func readMatrix(path string, bim map[string]genomisc.BIMRow) (*gtarray.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, pfx.Err(fmt.Errorf("%s has no header", path))
	}
	header := strings.Split(scanner.Text(), "\t")

	var ids []string
	cells := make([][]string, len(header)-1)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != len(header) {
			return nil, pfx.Err(fmt.Errorf("row %d has %d fields, header has %d", len(ids)+1, len(fields), len(header)))
		}
		ids = append(ids, fields[0])
		for j, cell := range fields[1:] {
			cells[j] = append(cells[j], cell)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	frame := gtarray.NewFrame(gtarray.Samples(ids...))
	for j, field := range header[1:] {
		v, err := parseHeader(field, bim)
		if err != nil {
			return nil, pfx.Err(err)
		}
		a, err := gtarray.FromStrings(cells[j], gtarray.WithVariant(v))
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("column %q: %w", field, err))
		}
		if err := frame.Add(field, a); err != nil {
			return nil, pfx.Err(err)
		}
	}
	return frame, nil
}
