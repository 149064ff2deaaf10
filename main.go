package main

import (
	"flag"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/hwdbg/mec16xxflash/mechal"
	"github.com/hwdbg/mec16xxflash/mectasks"
	"github.com/hwdbg/mec16xxflash/openocd"
)

func main() {
	dev := flag.String("dev", "localhost:4444", "OpenOCD telnet address")
	fwSize := flag.Uint("fwsize", 0x30000, "firmware array size (0x30000 or 0x40000)")
	pollTimeout := flag.Duration("poll-timeout", 5*time.Second, "status poll timeout")

	readFlash := flag.Bool("read", false, "read flash to file")
	writeFlash := flag.Bool("write", false, "write flash from file (erase separately)")
	eraseFlash := flag.Bool("erase", false, "erase the entire flash array")

	readEEPROM := flag.Bool("eeprom-read", false, "read EEPROM to file")
	writeEEPROM := flag.Bool("eeprom-write", false, "erase and write EEPROM from file")
	eraseEEPROM := flag.Bool("eeprom-erase", false, "erase the entire EEPROM array")

	flag.Parse()

	needFile := *readFlash || *writeFlash || *readEEPROM || *writeEEPROM
	filename := flag.Arg(0)
	if needFile && filename == "" {
		glog.Exit("no image file given")
	}

	oocd, err := openocd.New(*dev)
	if err != nil {
		glog.Exit(err)
	}
	defer oocd.Close()

	if err := oocd.Halt(); err != nil {
		glog.Exit(err)
	}

	hal, err := mechal.New(oocd, mechal.Config{
		FirmwareSize: uint32(*fwSize),
		PollTimeout:  *pollTimeout,
	})
	if err != nil {
		glog.Exit(err)
	}

	tasks := mectasks.New(hal)

	if *eraseFlash {
		if err := tasks.EraseFlash(); err != nil {
			glog.Exit(err)
		}
	}

	if *readFlash {
		data, err := tasks.ReadFlash()
		if err != nil {
			glog.Exit(err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			glog.Exit(err)
		}
	}

	if *writeFlash {
		data, err := os.ReadFile(filename)
		if err != nil {
			glog.Exit(err)
		}
		if err := tasks.WriteFlash(data); err != nil {
			glog.Exit(err)
		}
	}

	if *eraseEEPROM {
		if err := tasks.EraseEEPROM(); err != nil {
			glog.Exit(err)
		}
	}

	if *readEEPROM {
		data, err := tasks.ReadEEPROM()
		if err != nil {
			glog.Exit(err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			glog.Exit(err)
		}
	}

	if *writeEEPROM {
		data, err := os.ReadFile(filename)
		if err != nil {
			glog.Exit(err)
		}
		if err := tasks.WriteEEPROM(data); err != nil {
			glog.Exit(err)
		}
	}
}
